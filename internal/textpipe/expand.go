package textpipe

import (
	"strings"
	"unicode"

	apperrors "github.com/ravikiranms/hybridsearch/pkg/errors"
)

// ExpandRunLength decodes a run-length pattern such as "a3b2" into "aaabbb".
// A character without a following count expands once. The decoded length is
// capped by maxExpand; exceeding it fails with ErrInvalidArgument. This is a
// companion utility and is not consulted on the query path.
func ExpandRunLength(pattern string, maxExpand int) (string, error) {
	if maxExpand <= 0 {
		maxExpand = 10000
	}
	var b strings.Builder
	runes := []rune(pattern)
	i := 0
	for i < len(runes) {
		ch := runes[i]
		if unicode.IsDigit(ch) {
			return "", apperrors.Newf(apperrors.ErrInvalidArgument,
				"pattern %q: count without preceding character at offset %d", pattern, i)
		}
		i++
		count := 0
		for i < len(runes) && unicode.IsDigit(runes[i]) {
			count = count*10 + int(runes[i]-'0')
			if count > maxExpand {
				return "", apperrors.Newf(apperrors.ErrInvalidArgument,
					"pattern %q: run of %d exceeds expansion limit %d", pattern, count, maxExpand)
			}
			i++
		}
		if count == 0 {
			count = 1
		}
		if b.Len()+count > maxExpand {
			return "", apperrors.Newf(apperrors.ErrInvalidArgument,
				"pattern %q: decoded length exceeds expansion limit %d", pattern, maxExpand)
		}
		for j := 0; j < count; j++ {
			b.WriteRune(ch)
		}
	}
	return b.String(), nil
}
