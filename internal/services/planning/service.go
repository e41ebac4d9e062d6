// Package planning derives per-step target dates from a folder's process
// template and the planning entries recorded against its orders.
package planning

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/flowline-app/flowmsgo/internal/models"
	"github.com/flowline-app/flowmsgo/internal/services/orders"
)

// DateLayout is the wire format for planning start dates.
const DateLayout = "2006-01-02"

// StatusPlanned is stamped onto an order's latest entry once planning runs.
const StatusPlanned = "Planned"

// FolderStore resolves flow definitions.
type FolderStore interface {
	ByID(string) (*models.Folder, error)
}

// EntryStore is used to stamp planning status onto order entries.
type EntryStore interface {
	ByID(string) (*models.OrderEntry, error)
	LatestByFolderAndOrder(string, string) (*models.OrderEntry, error)
	Save(*models.OrderEntry) error
}

// PlanningStore records and retrieves planning entries.
type PlanningStore interface {
	Create(*models.PlanningEntry) error
	ByFolderOldestFirst(string) ([]models.PlanningEntry, error)
	EarliestByFolderAndOrder(string, string) (*models.PlanningEntry, error)
}

// Service is the planning engine.
type Service struct {
	folders   FolderStore
	entries   EntryStore
	plannings PlanningStore
}

// New returns a planning service.
func New(folders FolderStore, entries EntryStore, plannings PlanningStore) *Service {
	return &Service{folders: folders, entries: entries, plannings: plannings}
}

// SchedulePlanning records a planning entry for the order and stamps the
// order's latest entry as Planned. A blank start date skips the planning
// record but still stamps the status.
func (s *Service) SchedulePlanning(folderID, orderID, startDate string) error {
	folderID = strings.TrimSpace(folderID)
	orderID = strings.TrimSpace(orderID)
	startDate = strings.TrimSpace(startDate)
	if folderID == "" || orderID == "" {
		return fmt.Errorf("%w: folder id and order id are required", models.ErrValidation)
	}

	if startDate != "" {
		entry := &models.PlanningEntry{
			FolderID:  folderID,
			OrderID:   orderID,
			StartDate: startDate,
		}
		if err := s.plannings.Create(entry); err != nil {
			return err
		}
	}

	s.stampPlanned(folderID, orderID)
	return nil
}

// stampPlanned marks the latest entry for the pair as Planned. A missing
// entry is not an error; planning can precede data entry.
func (s *Service) stampPlanned(folderID, orderID string) {
	entry, err := s.entries.LatestByFolderAndOrder(folderID, orderID)
	if err != nil {
		return
	}
	fields := entry.Fields.Data()
	if fields == nil {
		fields = map[string]string{}
	}
	fields[orders.PlanningStatusKey] = StatusPlanned
	entry.Fields = datatypes.NewJSONType(fields)
	_ = s.entries.Save(entry)
}

// UpdateOrderPlanningStatus sets the planning status on one entry by ID.
// A missing entry is a no-op.
func (s *Service) UpdateOrderPlanningStatus(entryID, status string) error {
	entry, err := s.entries.ByID(entryID)
	if err != nil {
		if err == models.ErrNotFound {
			return nil
		}
		return err
	}
	fields := entry.Fields.Data()
	if fields == nil {
		fields = map[string]string{}
	}
	fields[orders.PlanningStatusKey] = status
	entry.Fields = datatypes.NewJSONType(fields)
	return s.entries.Save(entry)
}

// StepRow is one derived schedule row.
type StepRow struct {
	Sr          int    `json:"sr"`
	Label       string `json:"label"`
	Responsible string `json:"responsible"`
	TargetType  string `json:"targetType"`
	Days        string `json:"days"`
	TargetDate  string `json:"targetDate"`
	Status      string `json:"status"`
}

// DeriveStepSchedule computes target dates for every step of the folder's
// template against the earliest planning entry for the order. Steps without
// a day offset yield "-" targets; an unparseable start date yields no rows.
func (s *Service) DeriveStepSchedule(folderID, orderID string) ([]StepRow, error) {
	folder, err := s.folders.ByID(folderID)
	if err != nil {
		return nil, err
	}

	start := ""
	if planning, err := s.plannings.EarliestByFolderAndOrder(folderID, orderID); err == nil {
		start = planning.StartDate
	}
	return DeriveRows(folder, start), nil
}

// DeriveRows maps the folder's steps onto start-relative target dates.
// A start date that does not parse degrades to an empty row list.
func DeriveRows(folder *models.Folder, startDate string) []StepRow {
	start, err := time.Parse(DateLayout, strings.TrimSpace(startDate))
	if err != nil {
		return nil
	}

	rows := make([]StepRow, 0, len(folder.Steps))
	for i, step := range folder.Steps {
		row := StepRow{
			Sr:          i + 1,
			Label:       step.Label,
			Responsible: step.Responsible,
			TargetType:  step.TargetType,
			Days:        orders.Absent,
			TargetDate:  orders.Absent,
			Status:      step.Status,
		}
		if row.Status == "" {
			row.Status = models.TaskPending
		}
		if step.Days != nil {
			row.Days = strconv.Itoa(*step.Days)
			row.TargetDate = start.AddDate(0, 0, *step.Days).Format(DateLayout)
		}
		rows = append(rows, row)
	}
	return rows
}

// Block is the planning view of one order: its recorded start plus the
// derived schedule.
type Block struct {
	OrderID      string    `json:"orderId"`
	StartDate    string    `json:"startDate"`
	CustomerName string    `json:"customerName"`
	CompanyName  string    `json:"companyName"`
	Rows         []StepRow `json:"rows"`
}

// PlanningBlocks returns one block per planning entry on the folder, oldest
// first. Customer and company names are pulled from the order's latest
// entry fields, falling back to the folder descriptor.
func (s *Service) PlanningBlocks(folderID string) ([]Block, error) {
	folder, err := s.folders.ByID(folderID)
	if err != nil {
		return nil, err
	}
	plannings, err := s.plannings.ByFolderOldestFirst(folderID)
	if err != nil {
		return nil, err
	}

	blocks := make([]Block, 0, len(plannings))
	for _, p := range plannings {
		block := Block{
			OrderID:      p.OrderID,
			StartDate:    p.StartDate,
			CustomerName: folder.CustomerName,
			CompanyName:  folder.CompanyName,
			Rows:         DeriveRows(folder, p.StartDate),
		}
		if entry, err := s.entries.LatestByFolderAndOrder(folderID, p.OrderID); err == nil {
			fields := entry.Fields.Data()
			if v := orders.FindFieldValue(fields, "Customer Name", "customer_name"); v != orders.Absent {
				block.CustomerName = v
			}
			if v := orders.FindFieldValue(fields, "Company Name", "company_name"); v != orders.Absent {
				block.CompanyName = v
			}
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}
