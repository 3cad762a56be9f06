// Package listing drives the paginated, searchable user list: which page is
// shown, what is being searched, and the confirm-before-delete flow.
//
// Only the latest fetch may change what is shown. Every refresh takes a
// sequence number and cancels its predecessor; a response whose sequence is
// no longer current is dropped.
package listing

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/gophadmin/internal/client/client"
	"github.com/dmitrijs2005/gophadmin/internal/client/models"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
)

const (
	DefaultPageSize = 10

	msgLoadFailed   = "failed to load users"
	msgDeleteFailed = "failed to delete user"
	msgDeleted      = "user deleted"
)

var (
	ErrNothingStaged  = errors.New("no user staged for deletion")
	ErrDeleteInFlight = errors.New("a deletion is already in progress")
)

// API is the slice of the remote client the list needs.
type API interface {
	GetUsers(ctx context.Context, page, limit int, q string) (*models.UsersPage, error)
	DeleteUser(ctx context.Context, id string) error
}

// Notifier shows transient messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type DeleteState int

const (
	Idle DeleteState = iota
	Pending
	InFlight
	Failed
)

func (s DeleteState) String() string {
	switch s {
	case Pending:
		return "pending"
	case InFlight:
		return "in-flight"
	case Failed:
		return "failed"
	}
	return "idle"
}

// State is a copy of what the list currently shows.
type State struct {
	Page       int
	PageSize   int
	TotalPages int
	SearchTerm string
	Items      []models.UserProfile
	Loading    bool
	Delete     DeleteState
	Staged     *models.UserProfile
}

type Controller struct {
	api      API
	notify   Notifier
	logger   logging.Logger
	pageSize int

	mu         sync.Mutex
	mounted    bool
	page       int
	totalPages int
	term       string
	items      []models.UserProfile
	loading    bool
	seq        uint64
	cancel     context.CancelFunc
	del        DeleteState
	staged     *models.UserProfile
}

func NewController(api API, notify Notifier, logger logging.Logger, pageSize int) *Controller {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Controller{
		api:      api,
		notify:   notify,
		logger:   logger,
		pageSize: pageSize,
		page:     1,
	}
}

// Mount starts the first fetch.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	c.mounted = true
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Unmount cancels whatever is in flight; late responses are discarded.
func (c *Controller) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mounted = false
	c.seq++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.loading = false
}

// Refresh fetches the current page for the current search term. On failure
// the previous items stay on screen and one error is notified. Refresh does
// nothing while unmounted.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return nil
	}
	c.seq++
	seq := c.seq
	if c.cancel != nil {
		c.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.loading = true
	page, term := c.page, c.term
	c.mu.Unlock()

	defer cancel()

	res, err := c.api.GetUsers(fetchCtx, page, c.pageSize, term)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.logger.Debug(ctx, "dropping stale users page", "page", page, "q", term)
		return nil
	}
	c.cancel = nil
	c.loading = false

	if err != nil {
		c.mu.Unlock()
		if errors.Is(err, context.Canceled) {
			return err
		}
		c.logger.Warn(ctx, "users fetch failed", "page", page, "q", term, "error", err)
		c.notify.Error(client.MessageOf(err, msgLoadFailed))
		return err
	}

	c.items = res.Data
	c.totalPages = res.TotalPages

	// The last page can disappear under us, e.g. after deleting its only row.
	refetch := false
	if last := max(c.totalPages, 1); c.page > last {
		c.page = last
		refetch = true
	}
	c.mu.Unlock()

	c.logger.Debug(ctx, "users page loaded", "page", page, "total_pages", res.TotalPages, "q", term)

	if refetch {
		return c.Refresh(ctx)
	}
	return nil
}

// SetSearchTerm replaces the search term and returns to the first page.
func (c *Controller) SetSearchTerm(ctx context.Context, term string) error {
	c.mu.Lock()
	if term == c.term && c.page == 1 {
		c.mu.Unlock()
		return nil
	}
	c.term = term
	c.page = 1
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// SetPage moves to page n, clamped to the known page range. Moving to the
// page already shown does nothing.
func (c *Controller) SetPage(ctx context.Context, n int) error {
	c.mu.Lock()
	n = min(max(n, 1), max(c.totalPages, 1))
	if n == c.page {
		c.mu.Unlock()
		return nil
	}
	c.page = n
	c.mu.Unlock()

	return c.Refresh(ctx)
}

func (c *Controller) NextPage(ctx context.Context) error {
	return c.SetPage(ctx, c.Page()+1)
}

func (c *Controller) PrevPage(ctx context.Context) error {
	return c.SetPage(ctx, c.Page()-1)
}

func (c *Controller) HasPrev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page > 1
}

func (c *Controller) HasNext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page < c.totalPages
}

func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// RequestDelete stages item for deletion. Nothing is sent until
// ConfirmDelete.
func (c *Controller) RequestDelete(item models.UserProfile) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.del == InFlight {
		return ErrDeleteInFlight
	}
	c.staged = &item
	c.del = Pending
	return nil
}

func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.del == InFlight {
		return
	}
	c.staged = nil
	c.del = Idle
}

// ConfirmDelete deletes the staged user. On success the list is refetched;
// on failure it is left alone and the staged user is dropped.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if c.del != Pending || c.staged == nil {
		c.mu.Unlock()
		return ErrNothingStaged
	}
	c.del = InFlight
	target := *c.staged
	c.mu.Unlock()

	err := c.api.DeleteUser(ctx, target.ID)

	c.mu.Lock()
	c.staged = nil
	if err != nil {
		c.del = Failed
		c.mu.Unlock()
		c.logger.Warn(ctx, "user delete failed", "user_id", target.ID, "error", err)
		c.notify.Error(client.MessageOf(err, msgDeleteFailed))
		return err
	}
	c.del = Idle
	c.mu.Unlock()

	c.logger.Info(ctx, "user deleted", "user_id", target.ID)
	c.notify.Success(msgDeleted)
	return c.Refresh(ctx)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		Page:       c.page,
		PageSize:   c.pageSize,
		TotalPages: c.totalPages,
		SearchTerm: c.term,
		Items:      append([]models.UserProfile(nil), c.items...),
		Loading:    c.loading,
		Delete:     c.del,
	}
	if c.staged != nil {
		staged := *c.staged
		s.Staged = &staged
	}
	return s
}
