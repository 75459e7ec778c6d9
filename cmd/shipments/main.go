package main

import (
	"bufio"
	"catalogo_server/config"
	"catalogo_server/database"
	"catalogo_server/lib"
	"catalogo_server/services"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
)

func main() {
	receiveFlag := flag.String("receive", "", "ID of a pending shipment to mark received")
	yesFlag := flag.Bool("yes", false, "Skip the confirmation prompt")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.GetConfig()
	logger := config.InitializeLogger()

	if err := database.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer database.CloseInstance()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	sm := services.NewServiceManager(logger, cfg, database.GetInstance())
	board := services.NewShipmentBoard(sm.ShipmentService)
	if err := board.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load shipments: %v\n", err)
		os.Exit(1)
	}

	if *receiveFlag == "" {
		printShipments(os.Stdout, board.Shipments())
		return
	}

	id, err := lib.ParseUUIDParam(*receiveFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %q is not a shipment ID\n", *receiveFlag)
		os.Exit(1)
	}

	shipment, err := board.Open(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: shipment %s not found\n", id)
		os.Exit(1)
	}
	printLines(os.Stdout, shipment)

	if !board.CanReceive(id) {
		fmt.Fprintf(os.Stderr, "Shipment is already %s\n", shipment.Status)
		os.Exit(1)
	}

	confirmed := *yesFlag || confirm(os.Stdin, os.Stdout, fmt.Sprintf("Mark shipment %s as received?", id))
	if !confirmed {
		fmt.Println("Aborted, nothing changed")
		return
	}

	if err := board.Receive(ctx, id, confirmed); err != nil {
		if errors.Is(err, services.ErrReloadFailed) {
			logger.Warn("Shipment received but the list could not be reloaded", gecho.Field("error", err))
			fmt.Println("Shipment received")
			return
		}
		fmt.Fprintf(os.Stderr, "Failed to mark shipment received: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Shipment received")
	printShipments(os.Stdout, board.Shipments())
}

func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func printShipments(out io.Writer, shipments []services.ShipmentView) {
	if len(shipments) == 0 {
		fmt.Fprintln(out, "No shipments")
		return
	}

	fmt.Fprintf(out, "\n=== %d shipments ===\n\n", len(shipments))
	fmt.Fprintf(out, "%-36s  %-10s  %-10s  %-8s  %5s  %6s\n", "ID", "CREATED", "EXPECTED", "STATUS", "LINES", "UNITS")
	for _, s := range shipments {
		expected := "-"
		if !s.ExpectedArrivalDate.IsZero() {
			expected = s.ExpectedArrivalDate.Format("2006-01-02")
		}
		fmt.Fprintf(out, "%-36s  %-10s  %-10s  %-8s  %5d  %6d\n",
			s.ID, s.CreatedAt.Format("2006-01-02"), expected, s.Status, s.ItemCount, s.TotalUnits)
	}
}

func printLines(out io.Writer, shipment *services.ShipmentView) {
	fmt.Fprintf(out, "Shipment %s (%s)\n", shipment.ID, shipment.Status)
	if shipment.Description != "" {
		fmt.Fprintf(out, "  %s\n", shipment.Description)
	}
	for _, line := range shipment.Items {
		fmt.Fprintf(out, "  %4dx %s\n", line.Quantity, line.ProductName)
	}
	fmt.Fprintf(out, "  %d lines, %d units\n", shipment.ItemCount, shipment.TotalUnits)
}
