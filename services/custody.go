package services

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"case_registry_go/models"
)

// Custody says where a physical file is: at the registry, or with a named custodian
type Custody struct {
	custodian string // empty means at the registry
}

// AtRegistry is the default holding location
func AtRegistry() Custody {
	return Custody{}
}

// WithCustodian returns custody held by the named party. The registry name maps back to AtRegistry.
func WithCustodian(name string) Custody {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, models.RegistryName) {
		return AtRegistry()
	}
	return Custody{custodian: name}
}

// IsRegistry reports whether the file is held by the registry
func (c Custody) IsRegistry() bool {
	return c.custodian == ""
}

// Name returns the custodian name, serializing the registry as "Registry"
func (c Custody) Name() string {
	if c.IsRegistry() {
		return models.RegistryName
	}
	return c.custodian
}

// HeldBy reports whether the named attorney currently holds the file
func (c Custody) HeldBy(name string) bool {
	return !c.IsRegistry() && models.NamesMatch(c.custodian, name)
}

func (c Custody) String() string {
	return c.Name()
}

func (c Custody) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Name())
}

// CustodyStatus is the derived custody view of a file's ledger
type CustodyStatus struct {
	Custodian   Custody          `json:"custodian"`
	Latest      *models.Movement `json:"latest,omitempty"`
	InTransit   bool             `json:"in_transit"`
	TransitDays int              `json:"transit_days"`
}

// SortMovements returns a copy of the ledger ordered newest first.
// Ties on date fall back to id, descending; ids are time ordered, so the later
// recording wins.
func SortMovements(movements []models.Movement) []models.Movement {
	sorted := make([]models.Movement, len(movements))
	copy(sorted, movements)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.After(sorted[j].Date)
		}
		return sorted[i].ID > sorted[j].ID
	})
	return sorted
}

// ResolveCustody derives the current custodian and transit state from a ledger
func ResolveCustody(movements []models.Movement, now time.Time) CustodyStatus {
	if len(movements) == 0 {
		return CustodyStatus{Custodian: AtRegistry()}
	}

	latest := SortMovements(movements)[0]
	status := CustodyStatus{
		Custodian: WithCustodian(latest.MovedTo),
		Latest:    &latest,
	}

	status.InTransit = latest.ReceivedAt == nil && !latest.IsToRegistry()
	if status.InTransit {
		status.TransitDays = wholeDaysBetween(latest.Date, now)
	}
	return status
}

// Acknowledge marks one ledger entry as received. Re-acknowledging overwrites
// the previous receipt.
func Acknowledge(ledger []models.Movement, movementID, receivedBy string, now time.Time) ([]models.Movement, error) {
	updated := make([]models.Movement, len(ledger))
	copy(updated, ledger)

	for i := range updated {
		if updated[i].ID == movementID {
			receivedAt := now
			updated[i].ReceivedAt = &receivedAt
			updated[i].ReceivedBy = receivedBy
			return updated, nil
		}
	}
	return nil, notFoundf("movement %s not found", movementID)
}

// HasHeld reports whether the named attorney appears anywhere in the ledger as a destination
func HasHeld(movements []models.Movement, name string) bool {
	for _, m := range movements {
		if models.NamesMatch(m.MovedTo, name) {
			return true
		}
	}
	return false
}

func wholeDaysBetween(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}
