package tickets

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func samplePayload() *Payload {
	return &Payload{
		Type:             PayloadType,
		BookingReference: "CBK-20260901-QWJZTK",
		VerificationCode: "H7TXK2PM",
		MovieTitle:       "Interstellar Horizons",
		ShowtimeID:       "3f1d9a4e-92f1-4a30-9f2a-6d8a2c3b4e5f",
		Theater:          "Theater 1",
		StartsAt:         time.Date(2026, 9, 5, 21, 0, 0, 0, time.UTC),
		Seats:            []string{"A1", "A2"},
		CustomerName:     "Dana Moreno",
		AmountPaid:       25.00,
		IssuedAt:         time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	original := samplePayload()

	encoded, err := original.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := Parse(encoded)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", decoded, original)
	}
}

func TestEncodeSetsType(t *testing.T) {
	p := samplePayload()
	p.Type = ""

	encoded, err := p.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.Contains(encoded, PayloadType) {
		t.Errorf("encoded payload missing type marker: %s", encoded)
	}
}

func TestParseMalformed(t *testing.T) {
	valid, err := samplePayload().Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "this is not a ticket"},
		{"empty string", ""},
		{"json but wrong shape", `{"hello":"world"}`},
		{"foreign payload type", strings.Replace(valid, PayloadType, "other.ticket", 1)},
		{"missing reference", strings.Replace(valid, "CBK-20260901-QWJZTK", "", 1)},
		{"missing code", strings.Replace(valid, "H7TXK2PM", "", 1)},
		{"truncated", valid[:len(valid)/2]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			if !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("Parse(%q) error = %v, want ErrMalformedPayload", tt.raw, err)
			}
		})
	}
}

func TestRenderQRDataURI(t *testing.T) {
	uri, err := RenderQRDataURI(samplePayload())
	if err != nil {
		t.Fatalf("RenderQRDataURI failed: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("data URI has wrong prefix: %.40s", uri)
	}
	if len(uri) <= len("data:image/png;base64,") {
		t.Error("data URI carries no image data")
	}
}
