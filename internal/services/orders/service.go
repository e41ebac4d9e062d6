// Package orders implements the order-entry store semantics: append-only
// field submissions per folder+order with latest-wins retrieval.
package orders

import (
	"fmt"
	"regexp"
	"strings"

	"gorm.io/datatypes"

	"github.com/flowline-app/flowmsgo/internal/models"
)

// Absent is the sentinel returned for missing or blank field values.
const Absent = "-"

// PlanningStatusKey is the canonical field key carrying an order's
// planning status inside its field map.
const PlanningStatusKey = "planning_status"

// EntryStore is the persistence surface the service needs for entries.
type EntryStore interface {
	Create(*models.OrderEntry) error
	ByID(string) (*models.OrderEntry, error)
	ByFolderNewestFirst(string) ([]models.OrderEntry, error)
	LatestByFolderAndOrder(string, string) (*models.OrderEntry, error)
	Save(*models.OrderEntry) error
}

// FolderStore resolves flow definitions for dashboard shaping.
type FolderStore interface {
	ByID(string) (*models.Folder, error)
}

// Service exposes the order-entry operations.
type Service struct {
	entries EntryStore
	folders FolderStore
}

// New returns an order-entry service.
func New(entries EntryStore, folders FolderStore) *Service {
	return &Service{entries: entries, folders: folders}
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeKey canonicalizes a field label: lowercase, non-alphanumeric runs
// collapsed to "_", leading/trailing "_" trimmed. Idempotent.
func NormalizeKey(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = nonAlnum.ReplaceAllString(normalized, "_")
	return strings.Trim(normalized, "_")
}

// FindFieldValue resolves a field by canonical key first, then by a
// normalization-insensitive scan. Missing or blank values come back as the
// Absent sentinel; it never fails.
func FindFieldValue(fields map[string]string, label, canonicalKey string) string {
	if len(fields) == 0 {
		return Absent
	}
	if canonicalKey != "" {
		if val, ok := fields[canonicalKey]; ok {
			if strings.TrimSpace(val) == "" {
				return Absent
			}
			return val
		}
	}
	normalizedLabel := NormalizeKey(label)
	for key, val := range fields {
		if NormalizeKey(key) == normalizedLabel {
			if strings.TrimSpace(val) == "" {
				return Absent
			}
			return val
		}
	}
	return Absent
}

// SubmitEntry appends a new entry; it never overwrites a previous
// submission for the same folder+order. Field keys are normalized to
// tolerate schema-label drift between submissions.
func (s *Service) SubmitEntry(folderID, orderID string, fields map[string]string) (*models.OrderEntry, error) {
	folderID = strings.TrimSpace(folderID)
	if folderID == "" {
		return nil, fmt.Errorf("%w: folder id is required", models.ErrValidation)
	}

	normalized := make(map[string]string, len(fields))
	for key, value := range fields {
		if k := NormalizeKey(key); k != "" {
			normalized[k] = value
		}
	}

	entry := &models.OrderEntry{
		FolderID: folderID,
		OrderID:  strings.TrimSpace(orderID),
		Fields:   datatypes.NewJSONType(normalized),
	}
	if err := s.entries.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// LatestEntry returns the most recently created entry for the pair, or nil
// when none exists.
func (s *Service) LatestEntry(folderID, orderID string) (*models.OrderEntry, error) {
	folderID = strings.TrimSpace(folderID)
	orderID = strings.TrimSpace(orderID)
	if folderID == "" || orderID == "" {
		return nil, nil
	}
	entry, err := s.entries.LatestByFolderAndOrder(folderID, orderID)
	if err != nil {
		if err == models.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

// EntriesForFolder returns all entries for the folder, newest first.
func (s *Service) EntriesForFolder(folderID string) ([]models.OrderEntry, error) {
	return s.entries.ByFolderNewestFirst(folderID)
}

// EntryRow is one row of the per-folder order table, with values aligned to
// the folder's field labels.
type EntryRow struct {
	Sr             int      `json:"sr"`
	EntryID        string   `json:"entryId"`
	OrderID        string   `json:"orderId"`
	Values         []string `json:"values"`
	PlanningStatus string   `json:"planningStatus"`
}

// Dashboard is the order-entry view for one folder.
type Dashboard struct {
	Folder          *models.Folder `json:"folder"`
	Rows            []EntryRow     `json:"rows"`
	PendingOrderIDs []string       `json:"pendingOrderIds"`
	TotalOrders     int            `json:"totalOrders"`
}

// DashboardFor shapes the folder's entries into table rows. Orders whose
// planning status is still Pending are collected for the planning picker.
func (s *Service) DashboardFor(folderID string) (*Dashboard, error) {
	folder, err := s.folders.ByID(folderID)
	if err != nil {
		return nil, err
	}
	entries, err := s.entries.ByFolderNewestFirst(folderID)
	if err != nil {
		return nil, err
	}

	rows := make([]EntryRow, 0, len(entries))
	var pending []string
	seen := map[string]bool{}
	for i, entry := range entries {
		fields := entry.Fields.Data()
		values := make([]string, 0, len(folder.FieldLabels))
		for _, label := range folder.FieldLabels {
			val := FindFieldValue(fields, label, NormalizeKey(label))
			if val == Absent {
				val = ""
			}
			values = append(values, val)
		}

		status := FindFieldValue(fields, "Planning Status", PlanningStatusKey)
		if status == Absent {
			status = "Pending"
		}
		if strings.EqualFold(status, "Pending") && entry.OrderID != "" && !seen[entry.OrderID] {
			seen[entry.OrderID] = true
			pending = append(pending, entry.OrderID)
		}

		rows = append(rows, EntryRow{
			Sr:             i + 1,
			EntryID:        entry.ID,
			OrderID:        entry.OrderID,
			Values:         values,
			PlanningStatus: status,
		})
	}

	return &Dashboard{
		Folder:          folder,
		Rows:            rows,
		PendingOrderIDs: pending,
		TotalOrders:     len(entries),
	}, nil
}
