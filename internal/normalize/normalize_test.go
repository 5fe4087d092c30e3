package normalize

import (
	"errors"
	"strings"
	"testing"
)

func TestText_Markup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "strips tags and keeps visible text",
			in:   "<p>Hello <b>world</b></p>",
			want: "Hello world",
		},
		{
			name: "removes script and style entirely",
			in:   "<p>keep</p><script>alert('x')</script><style>p{color:red}</style><p>also keep</p>",
			want: "keep\nalso keep",
		},
		{
			name: "block boundaries become newlines",
			in:   "<h1>Title</h1><p>First paragraph.</p><p>Second paragraph.</p>",
			want: "Title\nFirst paragraph.\nSecond paragraph.",
		},
		{
			name: "br becomes newline",
			in:   "line one<br/>line two<br>line three",
			want: "line one\nline two\nline three",
		},
		{
			name: "collapses whitespace and drops empty lines",
			in:   "<p>  spaced    out  </p><p>   </p><p>next</p>",
			want: "spaced out\nnext",
		},
		{
			name: "decodes entities",
			in:   "<p>a &amp; b &lt; c</p>",
			want: "a & b < c",
		},
		{
			name: "tables keep cell text",
			in:   "<table><tr><td>alpha</td><td>beta</td></tr></table>",
			want: "alpha\nbeta",
		},
		{
			name: "comments removed",
			in:   "<p>visible</p><!-- hidden -->",
			want: "visible",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Text([]byte(tt.in), Markup)
			if err != nil {
				t.Fatalf("Text() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestText_Plain(t *testing.T) {
	t.Run("valid utf-8 passes through unchanged", func(t *testing.T) {
		in := "plain text with\nnewlines and  spaces"
		got, err := Text([]byte(in), Plain)
		if err != nil {
			t.Fatalf("Text() error = %v", err)
		}
		if got != in {
			t.Errorf("Text() = %q, want %q", got, in)
		}
	})

	t.Run("invalid utf-8 falls back to latin-1", func(t *testing.T) {
		// 0xE9 is 'é' in Latin-1 but invalid as a standalone UTF-8 byte.
		in := []byte{'c', 'a', 'f', 0xE9}
		got, err := Text(in, Plain)
		if err != nil {
			t.Fatalf("Text() error = %v", err)
		}
		if got != "café" {
			t.Errorf("Text() = %q, want %q", got, "café")
		}
	})

	t.Run("binary content is rejected", func(t *testing.T) {
		in := []byte{0x00, 0x01, 'a', 'b'}
		got, err := Text(in, Plain)
		if !errors.Is(err, ErrUndecodable) {
			t.Fatalf("Text() error = %v, want ErrUndecodable", err)
		}
		if got != "" {
			t.Errorf("Text() = %q, want empty", got)
		}
	})
}

func TestText_Pure(t *testing.T) {
	// Same input, same output: Text holds no state.
	in := []byte("<p>same <em>every</em> time</p>")
	first, err := Text(in, Markup)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		got, err := Text(in, Markup)
		if err != nil {
			t.Fatal(err)
		}
		if got != first {
			t.Errorf("run %d: Text() = %q, want %q", i, got, first)
		}
	}
	if !strings.Contains(first, "same every time") {
		t.Errorf("unexpected normalization: %q", first)
	}
}
