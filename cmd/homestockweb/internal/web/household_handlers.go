package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
)

type inventoryView struct {
	Filter string
	Items  []sdk.Item
}

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.callContext(r)
	defer cancel()

	items, err := stateFrom(r).client.ListItems(ctx)
	if err != nil {
		s.showFailure(w, r, "inventory", "Inventory", err)
		return
	}

	view := inventoryView{Filter: strings.TrimSpace(r.URL.Query().Get("filter"))}
	view.Items, err = sdk.Filter(view.Filter, items)
	if err != nil {
		s.render(w, r, http.StatusBadRequest, "inventory", page{
			Title: "Inventory",
			Error: sdk.UserMessage(err),
			Data:  inventoryView{Filter: view.Filter, Items: items},
		})
		return
	}
	s.render(w, r, http.StatusOK, "inventory", page{Title: "Inventory", Data: view})
}

func (s *Server) handleInventoryCreate(w http.ResponseWriter, r *http.Request) {
	back := sdk.RouteInventory.Path
	quantity, err := formFloat(r, "quantity", 1)
	if err != nil {
		s.fail(w, r, back, err)
		return
	}
	expiry, err := formDate(r, "expiry_date")
	if err != nil {
		s.fail(w, r, back, err)
		return
	}
	item := sdk.Item{
		Name:       strings.TrimSpace(r.PostFormValue("name")),
		Category:   strings.TrimSpace(r.PostFormValue("category")),
		Quantity:   quantity,
		Location:   strings.TrimSpace(r.PostFormValue("location")),
		ExpiryDate: expiry,
		Notes:      strings.TrimSpace(r.PostFormValue("notes")),
	}

	ctx, cancel := s.callContext(r)
	defer cancel()
	created, err := stateFrom(r).client.CreateItem(ctx, item)
	if err != nil {
		s.fail(w, r, back, err)
		return
	}
	s.succeed(w, r, back, fmt.Sprintf("Added %s.", created.Name))
}

func (s *Server) handleInventoryDelete(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, sdk.RouteInventory.Path, "Item", stateFrom(r).client.DeleteItem)
}

type shoppingView struct {
	Items []sdk.ShoppingItem
}

func (s *Server) handleShopping(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.callContext(r)
	defer cancel()

	items, err := stateFrom(r).client.ListShoppingItems(ctx)
	if err != nil {
		s.showFailure(w, r, "shopping", "Shopping list", err)
		return
	}
	s.render(w, r, http.StatusOK, "shopping", page{Title: "Shopping list", Data: shoppingView{Items: items}})
}

func (s *Server) handleShoppingCreate(w http.ResponseWriter, r *http.Request) {
	back := sdk.RouteShoppingList.Path
	quantity, err := formFloat(r, "quantity", 1)
	if err != nil {
		s.fail(w, r, back, err)
		return
	}

	ctx, cancel := s.callContext(r)
	defer cancel()
	item := sdk.ShoppingItem{Name: strings.TrimSpace(r.PostFormValue("name")), Quantity: quantity}
	created, err := stateFrom(r).client.AddShoppingItem(ctx, item)
	if err != nil {
		s.fail(w, r, back, err)
		return
	}
	s.succeed(w, r, back, fmt.Sprintf("Added %s to the list.", created.Name))
}

func (s *Server) handleShoppingToggle(w http.ResponseWriter, r *http.Request) {
	back := sdk.RouteShoppingList.Path
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, back, err)
		return
	}
	purchased, err := strconv.ParseBool(r.PostFormValue("purchased"))
	if err != nil {
		s.fail(w, r, back, &sdk.ValidationError{Field: "purchased", Message: "must be true or false"})
		return
	}

	ctx, cancel := s.callContext(r)
	defer cancel()
	if err := stateFrom(r).client.SetShoppingItemPurchased(ctx, id, purchased); err != nil {
		s.fail(w, r, back, err)
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (s *Server) handleShoppingDelete(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, sdk.RouteShoppingList.Path, "Entry", stateFrom(r).client.RemoveShoppingItem)
}

type stockView struct {
	Items []sdk.StockItem
}

func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.callContext(r)
	defer cancel()

	items, err := stateFrom(r).client.ListStock(ctx)
	if err != nil {
		s.showFailure(w, r, "stock", "Stock", err)
		return
	}
	s.render(w, r, http.StatusOK, "stock", page{Title: "Stock", Data: stockView{Items: items}})
}

func (s *Server) handleStockCreate(w http.ResponseWriter, r *http.Request) {
	back := sdk.RouteStock.Path
	quantity, err := formFloat(r, "quantity", 0)
	if err != nil {
		s.fail(w, r, back, err)
		return
	}
	threshold, err := formFloat(r, "threshold", 0)
	if err != nil {
		s.fail(w, r, back, err)
		return
	}
	item := sdk.StockItem{
		Name:      strings.TrimSpace(r.PostFormValue("name")),
		Quantity:  quantity,
		Unit:      strings.TrimSpace(r.PostFormValue("unit")),
		Threshold: threshold,
	}

	ctx, cancel := s.callContext(r)
	defer cancel()
	created, err := stateFrom(r).client.CreateStockItem(ctx, item)
	if err != nil {
		s.fail(w, r, back, err)
		return
	}
	s.succeed(w, r, back, fmt.Sprintf("Tracking %s.", created.Name))
}

func (s *Server) handleStockAdjust(w http.ResponseWriter, r *http.Request) {
	back := sdk.RouteStock.Path
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, back, err)
		return
	}
	if strings.TrimSpace(r.PostFormValue("quantity")) == "" {
		s.fail(w, r, back, &sdk.ValidationError{Field: "quantity", Message: "is required"})
		return
	}
	quantity, err := formFloat(r, "quantity", 0)
	if err != nil {
		s.fail(w, r, back, err)
		return
	}

	ctx, cancel := s.callContext(r)
	defer cancel()
	updated, err := stateFrom(r).client.AdjustStock(ctx, id, quantity)
	if err != nil {
		s.fail(w, r, back, err)
		return
	}
	msg := fmt.Sprintf("%s set to %s.", updated.Name, strconv.FormatFloat(updated.Quantity, 'g', -1, 64))
	if updated.Low() {
		stateFrom(r).Notify(sdk.Notice{Level: sdk.NoticeWarning, Message: fmt.Sprintf("%s is running low.", updated.Name)})
	}
	s.succeed(w, r, back, msg)
}

func (s *Server) handleStockDelete(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, sdk.RouteStock.Path, "Stock item", stateFrom(r).client.DeleteStockItem)
}

type remindersView struct {
	Items []sdk.Reminder
	now   time.Time
}

// IsOverdue is called from the template.
func (v remindersView) IsOverdue(r sdk.Reminder) bool {
	return r.Overdue(v.now)
}

func (s *Server) handleReminders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.callContext(r)
	defer cancel()

	reminders, err := stateFrom(r).client.ListReminders(ctx)
	if err != nil {
		s.showFailure(w, r, "reminders", "Reminders", err)
		return
	}
	s.render(w, r, http.StatusOK, "reminders", page{
		Title: "Reminders",
		Data:  remindersView{Items: reminders, now: s.now()},
	})
}

func (s *Server) handleReminderCreate(w http.ResponseWriter, r *http.Request) {
	back := sdk.RouteReminders.Path
	due, err := formDate(r, "due_date")
	if err != nil {
		s.fail(w, r, back, err)
		return
	}
	if due.IsZero() {
		s.fail(w, r, back, &sdk.ValidationError{Field: "due_date", Message: "is required"})
		return
	}
	reminder := sdk.Reminder{
		Title:       strings.TrimSpace(r.PostFormValue("title")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		DueDate:     due,
	}

	ctx, cancel := s.callContext(r)
	defer cancel()
	created, err := stateFrom(r).client.CreateReminder(ctx, reminder)
	if err != nil {
		s.fail(w, r, back, err)
		return
	}
	s.succeed(w, r, back, fmt.Sprintf("Reminder %q scheduled for %s.", created.Title, created.DueDate))
}

func (s *Server) handleReminderComplete(w http.ResponseWriter, r *http.Request) {
	back := sdk.RouteReminders.Path
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, back, err)
		return
	}

	ctx, cancel := s.callContext(r)
	defer cancel()
	if err := stateFrom(r).client.CompleteReminder(ctx, id); err != nil {
		s.fail(w, r, back, err)
		return
	}
	s.succeed(w, r, back, "Reminder completed.")
}

func (s *Server) handleReminderDelete(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, sdk.RouteReminders.Path, "Reminder", stateFrom(r).client.DeleteReminder)
}

// deleteByID runs a delete action for the {id} in the path.
func (s *Server) deleteByID(w http.ResponseWriter, r *http.Request, back, noun string, del func(context.Context, int64) error) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, back, err)
		return
	}

	ctx, cancel := s.callContext(r)
	defer cancel()
	if err := del(ctx, id); err != nil {
		s.fail(w, r, back, err)
		return
	}
	s.succeed(w, r, back, fmt.Sprintf("%s %d deleted.", noun, id))
}
