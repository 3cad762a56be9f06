package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophadmin/internal/client/listing"
	"github.com/dmitrijs2005/gophadmin/internal/client/models"
	"github.com/dmitrijs2005/gophadmin/internal/client/router"
)

type dashboardView struct {
	app  *App
	list *listing.Controller
}

func newDashboardView(a *App) *dashboardView {
	return &dashboardView{
		app:  a,
		list: listing.NewController(a.api, a.notify, a.logger.With("component", "listing"), a.config.PageSize),
	}
}

func (v *dashboardView) Mount(ctx context.Context) error {
	v.app.println("== Users ==")
	err := v.list.Mount(ctx)
	v.render()
	return err
}

func (v *dashboardView) Unmount() { v.list.Unmount() }

func (v *dashboardView) Commands() []string {
	return []string{"list", "search [term]", "next", "prev", "page <n>", "delete <row>", "confirm", "cancel", "edit <row>", "new"}
}

func (v *dashboardView) Handle(ctx context.Context, cmd string, args []string) (bool, error) {
	a := v.app
	var err error

	switch cmd {
	case "list":
		err = v.list.Refresh(ctx)
	case "search":
		err = v.list.SetSearchTerm(ctx, strings.Join(args, " "))
	case "next":
		err = v.list.NextPage(ctx)
	case "prev":
		err = v.list.PrevPage(ctx)
	case "page":
		n, convErr := strconv.Atoi(first(args))
		if convErr != nil {
			a.println("Usage: page <n>")
			return true, convErr
		}
		err = v.list.SetPage(ctx, n)

	case "delete":
		u, rowErr := v.row(args)
		if rowErr != nil {
			return true, rowErr
		}
		if err := v.list.RequestDelete(u); err != nil {
			a.notify.Error(err.Error())
			return true, err
		}
		a.println(fmt.Sprintf("Delete %s <%s>? Type 'confirm' or 'cancel'.", u.Name, u.Email))
		return true, nil
	case "confirm":
		if err := v.list.ConfirmDelete(ctx); err != nil {
			if errors.Is(err, listing.ErrNothingStaged) {
				a.println("Nothing to confirm, use 'delete <row>' first")
			}
			v.render()
			return true, err
		}
	case "cancel":
		v.list.CancelDelete()
		a.println("Deletion cancelled")
		return true, nil

	case "edit":
		u, rowErr := v.row(args)
		if rowErr != nil {
			return true, rowErr
		}
		return true, a.nav.Navigate(ctx, "/usuario/"+u.ID)
	case "new":
		return true, a.nav.Navigate(ctx, router.PathUserNew)

	default:
		return false, nil
	}

	v.render()
	return true, err
}

// row resolves a 1-based row number of the table on screen.
func (v *dashboardView) row(args []string) (models.UserProfile, error) {
	items := v.list.State().Items
	n, err := strconv.Atoi(first(args))
	if err != nil || n < 1 || n > len(items) {
		err = fmt.Errorf("row must be between 1 and %d", len(items))
		v.app.notify.Error(err.Error())
		return models.UserProfile{}, err
	}
	return items[n-1], nil
}

func (v *dashboardView) render() {
	s := v.list.State()
	renderUsers(v.app.out, s.Items)

	nav := fmt.Sprintf("Page %d of %d", s.Page, max(s.TotalPages, 1))
	if v.list.HasPrev() {
		nav += "  [prev]"
	}
	if v.list.HasNext() {
		nav += "  [next]"
	}
	if s.SearchTerm != "" {
		nav += fmt.Sprintf("  search: %q", s.SearchTerm)
	}
	v.app.println(nav)
}

func first(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
