/*
Package semtok classifies template source into semantic tokens for preview
highlighting.

	Template Text
	     |
	  @lexer         tokens with byte offsets
	     |
	  @semtok        text, keyword, variable, function,
	     |           string, number, operator
	     v
	[]Token          sorted by offset, never overlapping

Tokens are produced from the lexer stream rather than the parsed tree so that
orphaned and too-deep directives are still highlighted as keywords.

Example Usage:

	tokens := semtok.GetTokensForText(ctx, "{if stream.cached}⚡{/if}")
	for _, tok := range tokens {
	    fmt.Println(tok.Type, tok.Range.Text)
	}
*/
package semtok
