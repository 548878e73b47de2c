package formats

import (
	"errors"
	"strings"
	"testing"
)

func TestScanStatements(t *testing.T) {
	input := "# header\n\nv 1 2 3 # trailing\n   \nf 1 2 3\n"

	var got []string
	err := scanStatements(strings.NewReader(input), func(key string, args []string) error {
		got = append(got, key+":"+strings.Join(args, ","))
		return nil
	})
	if err != nil {
		t.Fatalf("scanStatements() error = %v", err)
	}

	want := []string{"v:1,2,3", "f:1,2,3"}
	if len(got) != len(want) {
		t.Fatalf("got %d statements %v, want %v", len(got), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("statement %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestScanStatements_LineNumbers(t *testing.T) {
	errBad := errors.New("bad")
	input := "v 0 0 0\n# comment\nbogus\n"

	err := scanStatements(strings.NewReader(input), func(key string, _ []string) error {
		if key == "bogus" {
			return errBad
		}
		return nil
	})
	if !errors.Is(err, errBad) {
		t.Fatalf("scanStatements() error = %v, want %v", err, errBad)
	}
	if !strings.HasPrefix(err.Error(), "line 3:") {
		t.Errorf("error %q should name line 3", err)
	}
}

func TestScanStatements_LongLine(t *testing.T) {
	// Longer than bufio's default 64 KiB token.
	line := "f" + strings.Repeat(" 1/1/1", 20000)

	var n int
	err := scanStatements(strings.NewReader(line), func(_ string, args []string) error {
		n = len(args)
		return nil
	})
	if err != nil {
		t.Fatalf("scanStatements() error = %v", err)
	}
	if n != 20000 {
		t.Errorf("got %d args, want 20000", n)
	}
}
