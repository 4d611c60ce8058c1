package emoji

import "testing"

func TestGetEmoji(t *testing.T) {
	t.Cleanup(func() { SetEmojiDisabled(false) })

	SetEmojiDisabled(false)
	if got := GetEmoji("success"); got != "✅" {
		t.Errorf("Expected emoji, got %q", got)
	}

	SetEmojiDisabled(true)
	if !IsEmojiDisabled() {
		t.Error("Expected emoji disabled")
	}
	if got := GetEmoji("success"); got != "[OK]" {
		t.Errorf("Expected fallback, got %q", got)
	}
	if got := GetEmoji("no-such-key"); got != "[?]" {
		t.Errorf("Expected unknown marker, got %q", got)
	}
}
