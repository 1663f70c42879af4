// Package fleet defines the tracked simulation entities that own cargo
// ledgers. This package is PURE and must NOT import any infrastructure
// packages (network, events, platform).
package fleet

import (
	"github.com/davortega/CargoRutas/server/internal/domain/cargo"
	"github.com/davortega/CargoRutas/server/internal/domain/ledger"
)

// VehicleClass represents the transport mode of a vehicle.
type VehicleClass string

const (
	ClassTruck VehicleClass = "TRUCK"
	ClassTrain VehicleClass = "TRAIN"
	ClassShip  VehicleClass = "SHIP"
	ClassPlane VehicleClass = "PLANE"
)

// WorldID is the pseudo-entity standing for everything outside the city.
// Transfers from or to it have no tracked counterparty ledger.
const WorldID = "WORLD"

// Vehicle is a tracked entity. It exclusively owns its ledger, which is
// shared by reference with the presentation side for the vehicle's lifetime.
type Vehicle struct {
	ID     string
	Name   string
	Class  VehicleClass
	Ledger *ledger.Ledger
}

// NewVehicle creates a vehicle with an empty ledger.
func NewVehicle(id, name string, class VehicleClass) *Vehicle {
	return &Vehicle{
		ID:     id,
		Name:   name,
		Class:  class,
		Ledger: ledger.New(),
	}
}

// Route describes a recurring haul executed by the simulation: every
// EveryTicks ticks, Amount units of Resource move from FromID to ToID with
// the given destination classification. Either end may be WorldID.
type Route struct {
	ID          string
	FromID      string
	ToID        string
	Destination cargo.Destination
	Resource    cargo.Resource
	Amount      int
	EveryTicks  int64
}
