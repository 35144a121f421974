package email

import (
	"strings"
	"testing"
)

func TestRenderBookingConfirmed(t *testing.T) {
	html, err := renderEmailTemplate("booking_confirmed.html", bookingEmailData{
		Title:            "Agendamento confirmado",
		Heading:          "Agendamento confirmado",
		CustomerName:     "Maria Silva",
		ServiceName:      "Corte",
		ProfessionalName: "Ana Souza",
		StartFormatted:   "02/03/2026 10:00",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{"Maria Silva", "Corte", "Ana Souza", "02/03/2026 10:00"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered email missing %q", want)
		}
	}
}

func TestRenderBookingCancelled(t *testing.T) {
	html, err := renderEmailTemplate("booking_cancelled.html", bookingEmailData{
		Title:          "Agendamento cancelado",
		Heading:        "Agendamento cancelado",
		CustomerName:   "Maria Silva",
		ServiceName:    "Corte",
		StartFormatted: "02/03/2026 10:00",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "cancelado") {
		t.Error("rendered email missing cancellation wording")
	}
}
