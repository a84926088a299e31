package gateway_test

import (
	"context"
	"testing"

	"github.com/workhive/workhive-backend/internal/gateway"
)

func validInstrument() gateway.Instrument {
	return gateway.Instrument{
		CardNumber: "4242 4242 4242 4242",
		Expiry:     "12/99",
		CVV:        "123",
	}
}

func TestInstrumentValidate_Valid(t *testing.T) {
	if errs := validInstrument().Validate(); errs.HasErrors() {
		t.Errorf("Validate() on valid instrument returned errors: %v", errs.Fields)
	}
}

func TestInstrumentValidate_Card(t *testing.T) {
	cases := []struct {
		name string
		card string
	}{
		{"empty", ""},
		{"too short", "4242"},
		{"bad check digit", "4242424242424241"},
		{"letters", "4242abcd42424242"},
	}
	for _, c := range cases {
		in := validInstrument()
		in.CardNumber = c.card
		errs := in.Validate()
		if _, ok := errs.Fields["card"]; !ok {
			t.Errorf("%s: expected error on \"card\", got %v", c.name, errs.Fields)
		}
	}
}

func TestInstrumentValidate_Expiry(t *testing.T) {
	cases := []struct {
		name   string
		expiry string
	}{
		{"empty", ""},
		{"wrong format", "2026-12"},
		{"bad month", "13/26"},
		{"in the past", "01/20"},
	}
	for _, c := range cases {
		in := validInstrument()
		in.Expiry = c.expiry
		errs := in.Validate()
		if _, ok := errs.Fields["expiry"]; !ok {
			t.Errorf("%s: expected error on \"expiry\", got %v", c.name, errs.Fields)
		}
	}
}

func TestInstrumentValidate_CVV(t *testing.T) {
	for _, cvv := range []string{"", "12", "12345", "12a"} {
		in := validInstrument()
		in.CVV = cvv
		errs := in.Validate()
		if _, ok := errs.Fields["cvv"]; !ok {
			t.Errorf("CVV %q: expected error on \"cvv\", got %v", cvv, errs.Fields)
		}
	}
	for _, cvv := range []string{"123", "1234"} {
		in := validInstrument()
		in.CVV = cvv
		if errs := in.Validate(); errs.HasErrors() {
			t.Errorf("CVV %q: unexpected errors %v", cvv, errs.Fields)
		}
	}
}

func TestSandbox_ApprovesValidCard(t *testing.T) {
	gw := gateway.NewSandbox()
	ok, err := gw.Authorize(context.Background(), validInstrument(), 20000)
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if !ok {
		t.Error("Authorize should approve a valid instrument")
	}
}

func TestSandbox_DeclineCard(t *testing.T) {
	gw := gateway.NewSandbox()
	in := validInstrument()
	in.CardNumber = gateway.DeclineCard
	ok, err := gw.Authorize(context.Background(), in, 20000)
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if ok {
		t.Error("Authorize should decline the decline test card")
	}
}

func TestSandbox_RejectsNonPositiveAmount(t *testing.T) {
	gw := gateway.NewSandbox()
	for _, amount := range []int64{0, -500} {
		ok, err := gw.Authorize(context.Background(), validInstrument(), amount)
		if err != nil {
			t.Fatalf("Authorize returned error: %v", err)
		}
		if ok {
			t.Errorf("Authorize(amount=%d) should not approve", amount)
		}
	}
}
