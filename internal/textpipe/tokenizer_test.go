package textpipe

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	apperrors "github.com/ravikiranms/hybridsearch/pkg/errors"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "hello world", []string{"hello", "world"}},
		{"punctuation", "Hello, world! (really)", []string{"Hello", "world", "really"}},
		{"brackets and quotes", `[a] {b} 'c' "d"`, []string{"a", "b", "c", "d"}},
		{"collapsed delimiters", "one,,  two..three", []string{"one", "two", "three"}},
		{"empty", "", nil},
		{"only delimiters", " .,;: ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeFolding(t *testing.T) {
	n := NewNormalizer(Options{
		NormalizeUnicode: true,
		RemoveAccents:    true,
		MinTermLength:    2,
		StopWords:        []string{},
	})
	got := n.NormalizeText("Café RÉSUMÉ naïve")
	want := []string{"cafe", "resume", "naive"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeText = %v, want %v", got, want)
	}
}

func TestNormalizeStopWordsAndLength(t *testing.T) {
	n := NewNormalizer(Options{MinTermLength: 2})
	got := n.NormalizeText("The quick brown fox is a fox")
	want := []string{"quick", "brown", "fox", "fox"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeText = %v, want %v", got, want)
	}
}

func TestNormalizeCaseSensitive(t *testing.T) {
	n := NewNormalizer(Options{CaseSensitive: true, MinTermLength: 1, StopWords: []string{}})
	got := n.NormalizeText("Mixed CASE tokens")
	want := []string{"Mixed", "CASE", "tokens"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeText = %v, want %v", got, want)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer(Options{NormalizeUnicode: true, RemoveAccents: true, MinTermLength: 2})
	once := n.NormalizeText("Recherche Avancée sur les Données")
	twice := n.Normalize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("normalisation not idempotent: %v != %v", once, twice)
	}
}

func TestFoldConcurrent(t *testing.T) {
	n := NewNormalizer(Options{RemoveAccents: true})
	inputs := map[string]string{
		"Café":                   "cafe",
		"naïve Încercare":        "naive incercare",
		"Crème Brûlée à la Mode": "creme brulee a la mode",
		"plain ascii text":       "plain ascii text",
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				for in, want := range inputs {
					if got := n.Fold(in); got != want {
						select {
						case errs <- got + " != " + want:
						default:
						}
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Fatalf("concurrent Fold produced %s", e)
	}
}

func TestExpandRunLength(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		max     int
		want    string
		wantErr bool
	}{
		{"basic", "a3b2", 100, "aaabbb", false},
		{"implicit single", "abc", 100, "abc", false},
		{"mixed", "x2yz3", 100, "xxyzzz", false},
		{"multi digit", "a12", 100, "aaaaaaaaaaaa", false},
		{"over limit", "a500", 100, "", true},
		{"leading digit", "3a", 100, "", true},
		{"empty", "", 100, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandRunLength(tt.pattern, tt.max)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ExpandRunLength(%q) expected error", tt.pattern)
				}
				if !errors.Is(err, apperrors.ErrInvalidArgument) {
					t.Errorf("error = %v, want ErrInvalidArgument", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExpandRunLength(%q) unexpected error: %v", tt.pattern, err)
			}
			if got != tt.want {
				t.Errorf("ExpandRunLength(%q) = %q, want %q", tt.pattern, got, tt.want)
			}
		})
	}
}
