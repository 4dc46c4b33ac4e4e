package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/esusu/internal/models"
	"github.com/mmynk/esusu/internal/storage"
)

// CreateGroup persists a new group aggregate in one transaction.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, name, admin_id, fixed_amount, total_cycles, current_cycle, status, version, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.Name, group.AdminID, group.FixedAmount.String(),
		group.TotalCycles, group.CurrentCycle, string(group.Status),
		group.Version, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	if err := insertChildren(ctx, tx, group); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SaveGroup rewrites the aggregate, guarded by the version stamp.
func (s *SQLiteStore) SaveGroup(ctx context.Context, group *models.Group) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Compare-and-swap on the version column: this is what serializes
	// concurrent joins, contributions, and payout advances per group.
	res, err := tx.ExecContext(ctx,
		`UPDATE groups
		 SET name = ?, current_cycle = ?, status = ?, version = version + 1
		 WHERE id = ? AND version = ?`,
		group.Name, group.CurrentCycle, string(group.Status),
		group.ID, group.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		var exists int
		err := tx.QueryRowContext(ctx,
			"SELECT COUNT(1) FROM groups WHERE id = ?", group.ID,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check group existence: %w", err)
		}
		if exists == 0 {
			return storage.ErrNotFound
		}
		return storage.ErrVersionConflict
	}

	// Children are replaced wholesale inside the same transaction, so the
	// aggregate is all-or-nothing.
	for _, table := range []string{"members", "contributions", "payout_entries"} {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE group_id = ?", table), group.ID,
		); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if err := insertChildren(ctx, tx, group); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	group.Version++
	return nil
}

func insertChildren(ctx context.Context, tx *sql.Tx, group *models.Group) error {
	for _, m := range group.Members {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO members (id, group_id, user_id, slot, status, joined_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			m.ID, group.ID, m.UserID, m.Slot, string(m.Status), m.JoinedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}

	for _, c := range group.Contributions {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO contributions (id, group_id, member_id, cycle, amount, recorded_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			c.ID, group.ID, c.MemberID, c.Cycle, c.Amount.String(), c.RecordedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert contribution: %w", err)
		}
	}

	for _, p := range group.Payouts {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO payout_entries (group_id, member_id, slot, cycle_due, amount, paid, paid_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			group.ID, p.MemberID, p.Slot, p.CycleDue, p.Amount.String(),
			boolToInt(p.Paid), p.PaidAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payout entry: %w", err)
		}
	}

	return nil
}

// GetGroup loads a group aggregate by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	var fixedAmount, status string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, admin_id, fixed_amount, total_cycles, current_cycle, status, version, created_at
		 FROM groups WHERE id = ?`, groupID,
	).Scan(&group.ID, &group.Name, &group.AdminID, &fixedAmount,
		&group.TotalCycles, &group.CurrentCycle, &status,
		&group.Version, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	group.Status = models.GroupStatus(status)
	if group.FixedAmount, err = decimal.NewFromString(fixedAmount); err != nil {
		return nil, fmt.Errorf("failed to parse fixed amount: %w", err)
	}

	if err := s.loadChildren(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *SQLiteStore) loadChildren(ctx context.Context, group *models.Group) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, slot, status, joined_at
		 FROM members WHERE group_id = ? ORDER BY slot`, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m models.Member
		var status string
		if err := rows.Scan(&m.ID, &m.UserID, &m.Slot, &status, &m.JoinedAt); err != nil {
			return fmt.Errorf("failed to scan member: %w", err)
		}
		m.Status = models.MemberStatus(status)
		group.Members = append(group.Members, m)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate members: %w", err)
	}

	contribRows, err := s.db.QueryContext(ctx,
		`SELECT id, member_id, cycle, amount, recorded_at
		 FROM contributions WHERE group_id = ? ORDER BY recorded_at, id`, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get contributions: %w", err)
	}
	defer contribRows.Close()
	for contribRows.Next() {
		var c models.Contribution
		var amount string
		if err := contribRows.Scan(&c.ID, &c.MemberID, &c.Cycle, &amount, &c.RecordedAt); err != nil {
			return fmt.Errorf("failed to scan contribution: %w", err)
		}
		if c.Amount, err = decimal.NewFromString(amount); err != nil {
			return fmt.Errorf("failed to parse contribution amount: %w", err)
		}
		group.Contributions = append(group.Contributions, c)
	}
	if err := contribRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate contributions: %w", err)
	}

	payoutRows, err := s.db.QueryContext(ctx,
		`SELECT member_id, slot, cycle_due, amount, paid, paid_at
		 FROM payout_entries WHERE group_id = ? ORDER BY slot`, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get payout entries: %w", err)
	}
	defer payoutRows.Close()
	for payoutRows.Next() {
		var p models.PayoutEntry
		var amount string
		var paid int
		if err := payoutRows.Scan(&p.MemberID, &p.Slot, &p.CycleDue, &amount, &paid, &p.PaidAt); err != nil {
			return fmt.Errorf("failed to scan payout entry: %w", err)
		}
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return fmt.Errorf("failed to parse payout amount: %w", err)
		}
		p.Paid = paid != 0
		group.Payouts = append(group.Payouts, p)
	}
	if err := payoutRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate payout entries: %w", err)
	}

	return nil
}

// ListGroupsByUser loads every group the user holds a membership in.
// Admins are always members, so the membership join covers them too.
func (s *SQLiteStore) ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT group_id FROM members WHERE user_id = ?", userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memberships: %w", err)
	}

	groups := make([]*models.Group, 0, len(ids))
	for _, id := range ids {
		group, err := s.GetGroup(ctx, id)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
