package behavior

import "testing"

func TestNormalize_ExtractsConfidenceAndLabel(t *testing.T) {
	raw := "1. Dog detected\n2. The dog is running across the yard\n3. Confidence level: 0.85\n4. Your dog is having a great time!"

	e := Normalize(raw, SourceUpload)

	if e.Label != "running" {
		t.Fatalf("expected label running, got %q", e.Label)
	}
	if e.Confidence != 0.85 {
		t.Fatalf("expected confidence 0.85, got %v", e.Confidence)
	}
	if e.RawDetails != raw {
		t.Fatalf("raw details must be preserved verbatim")
	}
	if e.Source != SourceUpload {
		t.Fatalf("expected source upload, got %q", e.Source)
	}
	if e.DurationLabel != DurationNone {
		t.Fatalf("expected duration %q, got %q", DurationNone, e.DurationLabel)
	}
}

func TestNormalize_PercentConfidence(t *testing.T) {
	e := Normalize("Cat sitting on the couch, confidence: 90%", SourceUpload)

	if e.Label != "sitting" {
		t.Fatalf("expected label sitting, got %q", e.Label)
	}
	if e.Confidence != 0.9 {
		t.Fatalf("expected confidence 0.9, got %v", e.Confidence)
	}
}

func TestNormalize_ConfidenceBeforeKeyword(t *testing.T) {
	e := Normalize("I'd say 85% confidence the bird is eating seeds", SourceUpload)

	if e.Confidence != 0.85 {
		t.Fatalf("expected confidence 0.85, got %v", e.Confidence)
	}
	if e.Label != "eating" {
		t.Fatalf("expected label eating, got %q", e.Label)
	}
}

func TestNormalize_UploadFallbacks(t *testing.T) {
	raw := "A goat stands near the fence."

	e := Normalize(raw, SourceUpload)

	if e.Label != LabelUploadFallback {
		t.Fatalf("expected fallback label %q, got %q", LabelUploadFallback, e.Label)
	}
	if e.Confidence != DefaultConfidence {
		t.Fatalf("expected default confidence %v, got %v", DefaultConfidence, e.Confidence)
	}
	if e.RawDetails != raw {
		t.Fatalf("raw details must survive fallback")
	}
}

func TestNormalize_StreamFallback(t *testing.T) {
	e := Normalize("Some movement near the left edge.", SourceStream)

	if e.Label != LabelStreamFallback {
		t.Fatalf("expected %q, got %q", LabelStreamFallback, e.Label)
	}
	if e.Source != SourceStream {
		t.Fatalf("expected source stream, got %q", e.Source)
	}
}

func TestNormalize_ConfidenceAlwaysInRange(t *testing.T) {
	cases := []string{
		"confidence: 1.7",
		"confidence: 250%",
		"confidence: 0",
		"nothing parseable here",
		"confidence: 100%",
	}
	for _, raw := range cases {
		e := Normalize(raw, SourceUpload)
		if e.Confidence < 0 || e.Confidence > 1 {
			t.Fatalf("confidence out of range for %q: %v", raw, e.Confidence)
		}
	}
}

func TestParseConfidence(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"0.8", 0.8},
		{"80%", 0.8},
		{"80", 0.8},
		{"1", 1},
		{"", SentinelConfidence},
		{"high", SentinelConfidence},
		{"-0.3", 0},
	}
	for _, c := range cases {
		if got := ParseConfidence(c.in); got != c.want {
			t.Errorf("ParseConfidence(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
