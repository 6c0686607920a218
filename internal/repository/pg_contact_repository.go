package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/netidea/webbase/internal/model"
)

// ContactRepository defines the persistence interface for contact
// submissions. It is defined here (in repository) to avoid an import cycle
// with service.
type ContactRepository interface {
	// Save inserts the submission and its metadata row in one transaction,
	// populating sub.ID and sub.CreatedAt.
	Save(ctx context.Context, sub *model.ContactSubmission) error
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactSubmission, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// PgContactRepository is the PostgreSQL implementation of ContactRepository.
type PgContactRepository struct {
	db Querier
}

// NewPgContactRepository creates a PgContactRepository backed by the given pool.
func NewPgContactRepository(db Querier) *PgContactRepository {
	return &PgContactRepository{db: db}
}

var _ ContactRepository = (*PgContactRepository)(nil)

// Save inserts a contact_submissions row plus its submission_meta row and
// populates sub.ID and sub.CreatedAt from the RETURNING clause. Both rows
// commit or roll back together.
func (r *PgContactRepository) Save(ctx context.Context, sub *model.ContactSubmission) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`INSERT INTO contact_submissions (name, email, phone, message, consent, wants_copy, status)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)
		 RETURNING id, created_at`,
		sub.Name, sub.Email, sub.Phone, sub.Message, sub.Consent, sub.WantsCopy, sub.Status,
	).Scan(&sub.ID, &sub.CreatedAt)
	if err != nil {
		return err
	}

	if sub.Meta != nil {
		err = tx.QueryRow(ctx,
			`INSERT INTO submission_meta (submission_id, ip, user_agent, submitted_at, host)
			 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''))
			 RETURNING id`,
			sub.ID, sub.Meta.IP, sub.Meta.UserAgent, sub.Meta.SubmittedAt, sub.Meta.Host,
		).Scan(&sub.Meta.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// List returns contact submissions filtered by status and paginated by
// limit/offset, newest first. Status "" or "all" returns all submissions.
func (r *PgContactRepository) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactSubmission, error) {
	var conditions []string
	var args []any

	status := strings.TrimSpace(opts.Status)
	if status != "" && status != "all" {
		args = append(args, status)
		conditions = append(conditions, "status = $1")
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	limitArg := len(args) + 1
	offsetArg := len(args) + 2
	args = append(args, opts.Limit, opts.Offset)

	query := `SELECT id, name, email, COALESCE(phone, ''), message, consent, wants_copy, status, created_at
	          FROM contact_submissions ` + where +
		` ORDER BY created_at DESC
		  LIMIT $` + strconv.Itoa(limitArg) + ` OFFSET $` + strconv.Itoa(offsetArg)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*model.ContactSubmission
	for rows.Next() {
		var s model.ContactSubmission
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Message, &s.Consent, &s.WantsCopy, &s.Status, &s.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, &s)
	}
	return subs, rows.Err()
}

// UpdateStatus changes the status of a contact submission.
func (r *PgContactRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE contact_submissions SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
