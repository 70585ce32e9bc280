package service

import (
	"context"
	"errors"
	"sync"

	"partnerlab-agent-be/internal/entity"
	"partnerlab-agent-be/internal/pkg/mailer"
	"partnerlab-agent-be/internal/repository/contract"
	"partnerlab-agent-be/internal/repository/specification"
	"partnerlab-agent-be/internal/repository/unitofwork"
	"partnerlab-agent-be/pkg/events"
)

// fakeStore plays the database. Rows staged in a transaction only become
// visible on commit.
type fakeStore struct {
	mu     sync.Mutex
	rows   []*entity.LabRequest
	nextID uint

	beginErr  error
	insertErr error
	commitErr error

	begins, commits, rollbacks int
}

func (s *fakeStore) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUoW{store: s}
}

func (s *fakeStore) committed() []*entity.LabRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entity.LabRequest(nil), s.rows...)
}

type fakeUoW struct {
	store   *fakeStore
	inTx    bool
	pending []*entity.LabRequest
}

func (u *fakeUoW) Begin(ctx context.Context) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	u.store.begins++
	if u.store.beginErr != nil {
		return u.store.beginErr
	}
	u.inTx = true
	return nil
}

func (u *fakeUoW) Commit() error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	if !u.inTx {
		return errors.New("no transaction to commit")
	}
	u.inTx = false
	if u.store.commitErr != nil {
		u.pending = nil
		return u.store.commitErr
	}
	u.store.commits++
	u.store.rows = append(u.store.rows, u.pending...)
	u.pending = nil
	return nil
}

func (u *fakeUoW) Rollback() error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	u.store.rollbacks++
	u.inTx = false
	u.pending = nil
	return nil
}

func (u *fakeUoW) LabRequestRepository() contract.LabRequestRepository {
	return &fakeRepo{uow: u}
}

type fakeRepo struct {
	uow *fakeUoW
}

func (r *fakeRepo) Create(ctx context.Context, request *entity.LabRequest) error {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	s.nextID++
	request.Id = s.nextID
	request.CreatedAt = request.Timestamp
	request.UpdatedAt = request.Timestamp
	row := *request
	if r.uow.inTx {
		r.uow.pending = append(r.uow.pending, &row)
	} else {
		s.rows = append(s.rows, &row)
	}
	return nil
}

func (r *fakeRepo) match(specs []specification.Specification) []*entity.LabRequest {
	rows := r.uow.store.rows
	var limit, offset int
	out := make([]*entity.LabRequest, 0, len(rows))
	for _, row := range rows {
		ok := true
		for _, spec := range specs {
			switch sp := spec.(type) {
			case specification.ByID:
				ok = ok && row.Id == sp.ID
			case specification.ByEmailAddress:
				ok = ok && row.EmailAddress == sp.Email
			case specification.Pagination:
				limit, offset = sp.Limit, sp.Offset
			}
		}
		if ok {
			out = append(out, row)
		}
	}
	if offset > len(out) {
		return nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

func (r *fakeRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LabRequest, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	rows := r.match(specs)
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *fakeRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LabRequest, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	return r.match(specs), nil
}

func (r *fakeRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	filters := make([]specification.Specification, 0, len(specs))
	for _, sp := range specs {
		if _, isPage := sp.(specification.Pagination); !isPage {
			filters = append(filters, sp)
		}
	}
	return int64(len(r.match(filters))), nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

type fakeMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *fakeMetrics) Submission(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = map[string]int{}
	}
	m.outcomes[outcome]++
}

func (m *fakeMetrics) count(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[outcome]
}

type fakeMailer struct {
	mu   sync.Mutex
	sent map[string]mailer.Receipt
}

func (m *fakeMailer) SendRequestReceived(to string, r mailer.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sent == nil {
		m.sent = map[string]mailer.Receipt{}
	}
	m.sent[to] = r
	return nil
}

func (m *fakeMailer) receipt(to string) (mailer.Receipt, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.sent[to]
	return r, ok
}

func validForm() map[string]any {
	return map[string]any{
		"company_name":          "Acme",
		"primary_contact_name":  "Jordan Lee",
		"primary_contact_email": "jordan@acme.com",
		"sponsor_email":         "sponsor@partner.com",
		"project_name":          "Edge rollout",
		"desired_start_date":    "2025-03-01",
		"lease_duration":        "2w",
		"timezone":              "America/New_York",
		"openshift_version":     "4.14",
		"application_type":      "workload",
		"request_type":          "general",
		"cluster_size":          "medium",
		"cloud_provider":        "aws",
		"description":           "Validate operator on managed clusters",
		"scope_of_work":         "Install, upgrade and soak test",
	}
}
