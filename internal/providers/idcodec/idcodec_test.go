package idcodec

import "testing"

func TestRoundTrip(t *testing.T) {
	keys := []string{
		"/music/Queen/A Night at the Opera/01 - Death on Two Legs.mp3",
		"Queen-A Night at the Opera",
		"artist with spaces",
		"ünïcödé/päth",
		"",
	}
	for _, key := range keys {
		id := Encode(key)
		got, err := Decode(id)
		if err != nil {
			t.Errorf("Decode(Encode(%q)) error = %v", key, err)
			continue
		}
		if got != key {
			t.Errorf("Decode(Encode(%q)) = %q", key, got)
		}
	}
}

func TestEncodeIsURLSafe(t *testing.T) {
	// This key's standard base64 form contains both "+" and "/".
	id := Encode("\xfb\xff\xfe?")
	for _, c := range id {
		if c == '+' || c == '/' || c == '=' {
			t.Fatalf("Encode produced non-URL-safe character %q in %q", c, id)
		}
	}
}

func TestDecodeToleratesPadding(t *testing.T) {
	got, err := Decode("aGk=")
	if err != nil || got != "hi" {
		t.Errorf("Decode(\"aGk=\") = %q, %v", got, err)
	}
}

func TestDecodeOrLiteral(t *testing.T) {
	if got := DecodeOrLiteral(Encode("raw key")); got != "raw key" {
		t.Errorf("decodable id = %q, want %q", got, "raw key")
	}
	if got := DecodeOrLiteral("not%base64!"); got != "not%base64!" {
		t.Errorf("literal fallback = %q", got)
	}
}
