package goals

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cleared-dev/fire/internal/model"
	"github.com/cleared-dev/fire/internal/money"
)

const (
	numFields   = 8
	dateFormat  = "2006-01-02"
	colID       = 0
	colName     = 1
	colTarget   = 2
	colCurrent  = 3
	colPriority = 4
	colDate     = 5
	colIBAN     = 6
	colDone     = 7
)

// ReadGoals reads goals.csv.
func ReadGoals(r io.Reader) ([]model.Goal, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading goals CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var goals []model.Goal
	for i, rec := range records[1:] {
		g, err := UnmarshalGoal(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		goals = append(goals, g)
	}
	return goals, nil
}

// WriteGoals writes goals.csv.
func WriteGoals(w io.Writer, goals []model.Goal) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"goal_id", "name", "target_amount", "current_amount", "priority", "target_date", "linked_account_iban", "completed"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, g := range goals {
		if err := cw.Write(MarshalGoal(g)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalGoal converts a Goal to a CSV row.
func MarshalGoal(g model.Goal) []string {
	row := make([]string, numFields)
	row[colID] = g.ID
	row[colName] = g.Name
	row[colTarget] = g.Target.String()
	row[colCurrent] = g.Current.String()
	row[colPriority] = strconv.Itoa(g.Priority)
	if g.TargetDate != nil {
		row[colDate] = g.TargetDate.Format(dateFormat)
	}
	row[colIBAN] = g.LinkedAccountIBAN
	row[colDone] = strconv.FormatBool(g.Completed)
	return row
}

// UnmarshalGoal converts a CSV row to a Goal. Blank amounts and flags read
// as zero so hand-edited files stay short.
func UnmarshalGoal(record []string) (model.Goal, error) {
	if len(record) != numFields {
		return model.Goal{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	if record[colID] == "" {
		return model.Goal{}, fmt.Errorf("missing goal_id")
	}

	target, err := cents(record[colTarget])
	if err != nil {
		return model.Goal{}, fmt.Errorf("parsing target_amount: %w", err)
	}
	current, err := cents(record[colCurrent])
	if err != nil {
		return model.Goal{}, fmt.Errorf("parsing current_amount: %w", err)
	}

	var priority int
	if record[colPriority] != "" {
		priority, err = strconv.Atoi(record[colPriority])
		if err != nil {
			return model.Goal{}, fmt.Errorf("parsing priority %q: %w", record[colPriority], err)
		}
	}

	var targetDate *time.Time
	if record[colDate] != "" {
		d, err := time.Parse(dateFormat, record[colDate])
		if err != nil {
			return model.Goal{}, fmt.Errorf("parsing target_date %q: %w", record[colDate], err)
		}
		targetDate = &d
	}

	var completed bool
	if record[colDone] != "" {
		completed, err = strconv.ParseBool(record[colDone])
		if err != nil {
			return model.Goal{}, fmt.Errorf("parsing completed %q: %w", record[colDone], err)
		}
	}

	return model.Goal{
		ID:                record[colID],
		Name:              record[colName],
		Target:            target,
		Current:           current,
		Priority:          priority,
		TargetDate:        targetDate,
		LinkedAccountIBAN: record[colIBAN],
		Completed:         completed,
	}, nil
}

func cents(s string) (money.Cents, error) {
	if s == "" {
		return 0, nil
	}
	return money.ToCents(s)
}
