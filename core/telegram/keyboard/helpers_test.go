package keyboard

import "testing"

func TestOneTimeChoicesOneButtonPerRow(t *testing.T) {
	markup := OneTimeChoices([]string{"42", "24", "Go"})
	if markup == nil {
		t.Fatalf("expected markup")
	}
	if !markup.OneTimeKeyboard || !markup.ResizeKeyboard {
		t.Fatalf("expected one-time resized keyboard, got %+v", markup)
	}
	if len(markup.ReplyKeyboard) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(markup.ReplyKeyboard))
	}
	for i, want := range []string{"42", "24", "Go"} {
		row := markup.ReplyKeyboard[i]
		if len(row) != 1 || row[0].Text != want {
			t.Fatalf("row %d: expected [%s], got %+v", i, want, row)
		}
	}
}

func TestOneTimeChoicesEmpty(t *testing.T) {
	if markup := OneTimeChoices(nil); markup != nil {
		t.Fatalf("expected nil markup for no choices, got %+v", markup)
	}
}
