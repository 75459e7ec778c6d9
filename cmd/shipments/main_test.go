package main

import (
	"bytes"
	"catalogo_server/services"
	"catalogo_server/structs"
	"catalogo_server/structs/tables"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestConfirm(t *testing.T) {
	tests := map[string]bool{
		"y\n":   true,
		"YES\n": true,
		"\n":    false,
		"no\n":  false,
		"":      false,
	}
	for input, want := range tests {
		var out bytes.Buffer
		if got := confirm(strings.NewReader(input), &out, "Receive?"); got != want {
			t.Errorf("confirm(%q) = %v, want %v", input, got, want)
		}
		if !strings.Contains(out.String(), "[y/N]") {
			t.Errorf("prompt missing, got %q", out.String())
		}
	}
}

func TestPrintLinesShowsRemovedProducts(t *testing.T) {
	shipmentID := uuid.New()
	view := services.JoinShipmentItems(
		[]tables.Shipment{{ID: shipmentID, Status: structs.ShipmentStatusPending}},
		[]tables.ShipmentItem{{ShipmentID: shipmentID, ProductID: uuid.New(), Quantity: 5}},
	)[0]

	var out bytes.Buffer
	printLines(&out, &view)
	if !strings.Contains(out.String(), "5x "+services.RemovedProductName) || !strings.Contains(out.String(), "1 lines, 5 units") {
		t.Errorf("output %q", out.String())
	}
}
