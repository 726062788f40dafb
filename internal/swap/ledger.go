// Package swap implements the swap ledger: proposing item-for-item swaps,
// moving them through their lifecycle and keeping item availability in step.
//
// Every operation runs in a single database transaction, so a swap's status
// and its items' statuses never diverge. Transitions on the same swap are also
// serialized in-process, and status updates are compare-and-set, so of two
// racing transitions at most one wins.
package swap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/erazemk/rewear/internal/apperr"
	"github.com/erazemk/rewear/internal/events"
	"github.com/erazemk/rewear/internal/model"
	"github.com/erazemk/rewear/internal/store"
)

// Ledger coordinates swaps between users.
type Ledger struct {
	db     *sql.DB
	locks  *keyedMutex
	events events.Publisher
	points PointsPolicy
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithPublisher sets the event publisher. Defaults to events.Nop.
func WithPublisher(p events.Publisher) Option {
	return func(l *Ledger) { l.events = p }
}

// WithPointsPolicy sets the completion points policy. Defaults to ItemForItem.
func WithPointsPolicy(p PointsPolicy) Option {
	return func(l *Ledger) { l.points = p }
}

// NewLedger creates a ledger backed by db.
func NewLedger(db *sql.DB, opts ...Option) *Ledger {
	l := &Ledger{
		db:     db,
		locks:  newKeyedMutex(),
		events: events.Nop{},
		points: ItemForItem{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (l *Ledger) publish(ctx context.Context, eventType string, s *model.Swap, actorID int64) {
	e := events.NewEvent(eventType, s.ID, actorID, s.ProposerID, s.ReceiverID, s.Status)
	if err := l.events.Publish(ctx, e); err != nil {
		slog.Warn("failed to publish swap event", "swap", s.ID, "type", eventType, "error", err)
	}
}

// Propose creates a pending swap of the actor's item for the receiver's item
// and reserves both items.
func (l *Ledger) Propose(ctx context.Context, actorID, proposerItemID, receiverItemID, receiverID int64) (*model.Swap, error) {
	if proposerItemID == receiverItemID {
		return nil, apperr.New(apperr.CodeInvalidProposal, "an item cannot be swapped for itself")
	}

	var s *model.Swap
	err := l.withTx(ctx, func(tx *sql.Tx) error {
		proposerItem, err := l.availableItem(ctx, tx, proposerItemID)
		if err != nil {
			return err
		}
		receiverItem, err := l.availableItem(ctx, tx, receiverItemID)
		if err != nil {
			return err
		}

		if proposerItem.OwnerID != actorID {
			return apperr.Newf(apperr.CodeInvalidProposal, "item %d does not belong to user %d", proposerItemID, actorID)
		}
		if receiverItem.OwnerID != receiverID {
			return apperr.Newf(apperr.CodeInvalidProposal, "item %d does not belong to user %d", receiverItemID, receiverID)
		}
		if actorID == receiverID {
			return apperr.New(apperr.CodeInvalidProposal, "cannot propose a swap with yourself")
		}

		receiver, err := store.GetUser(ctx, tx, receiverID)
		if err != nil {
			return err
		}
		if receiver == nil || !receiver.Active() {
			return apperr.Newf(apperr.CodeInvalidProposal, "user %d cannot receive swaps", receiverID)
		}

		id, err := store.CreateSwap(ctx, tx, actorID, proposerItemID, receiverID, receiverItemID)
		if err != nil {
			return err
		}
		for _, itemID := range []int64{proposerItemID, receiverItemID} {
			if err := store.SetItemStatus(ctx, tx, itemID, model.ItemStatusPendingSwap); err != nil {
				return err
			}
		}

		s, err = store.GetSwap(ctx, tx, id)
		if err != nil {
			return err
		}
		if s.ProposerItem, err = store.GetItem(ctx, tx, proposerItemID); err != nil {
			return err
		}
		s.ReceiverItem, err = store.GetItem(ctx, tx, receiverItemID)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("swap proposed", "swap", s.ID, "proposer", actorID, "receiver", receiverID)
	l.publish(ctx, events.SwapProposed, s, actorID)
	return s, nil
}

// availableItem loads an item that may be offered in a new swap.
func (l *Ledger) availableItem(ctx context.Context, tx *sql.Tx, id int64) (*model.Item, error) {
	item, err := store.GetItem(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.DeletedAt != nil {
		return nil, apperr.Newf(apperr.CodeInvalidProposal, "item %d does not exist", id)
	}
	if item.Status != model.ItemStatusActive {
		return nil, apperr.Newf(apperr.CodeItemUnavailable, "item %d is %s", id, item.Status)
	}

	reserved, err := store.ItemReserved(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if reserved {
		return nil, apperr.Newf(apperr.CodeItemUnavailable, "item %d is already part of a swap", id)
	}
	return item, nil
}

// Transition moves a swap to target on behalf of actorID and applies the
// matching item and points side effects.
func (l *Ledger) Transition(ctx context.Context, swapID, actorID int64, target string) (*model.Swap, error) {
	unlock := l.locks.Lock(swapID)
	defer unlock()

	var s *model.Swap
	var r rule
	err := l.withTx(ctx, func(tx *sql.Tx) error {
		current, err := store.GetSwap(ctx, tx, swapID)
		if err != nil {
			return err
		}
		if current == nil {
			return apperr.Newf(apperr.CodeNotFound, "swap %d not found", swapID)
		}

		r, err = checkTransition(current, actorID, target)
		if err != nil {
			return err
		}

		changed, err := store.UpdateSwapStatus(ctx, tx, swapID, r.from, r.to)
		if err != nil {
			return err
		}
		if !changed {
			return apperr.Newf(apperr.CodeInvalidTransition, "swap %d is no longer %q", swapID, r.from)
		}

		if r.itemStatus != "" {
			for _, itemID := range []int64{current.ProposerItemID, current.ReceiverItemID} {
				if err := store.SetItemStatus(ctx, tx, itemID, r.itemStatus); err != nil {
					return err
				}
			}
		}

		s, err = store.GetSwap(ctx, tx, swapID)
		if err != nil {
			return err
		}
		if s.ProposerItem, err = store.GetItem(ctx, tx, s.ProposerItemID); err != nil {
			return err
		}
		if s.ReceiverItem, err = store.GetItem(ctx, tx, s.ReceiverItemID); err != nil {
			return err
		}

		if r.to == model.SwapStatusCompleted {
			return l.awardPoints(ctx, tx, s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("swap status changed", "swap", swapID, "user", actorID, "from", r.from, "to", r.to)
	l.publish(ctx, r.event, s, actorID)
	return s, nil
}

func (l *Ledger) awardPoints(ctx context.Context, tx *sql.Tx, s *model.Swap) error {
	proposerDelta, receiverDelta := l.points.OnComplete(s, s.ProposerItem, s.ReceiverItem)
	if proposerDelta != 0 {
		if err := store.AddUserPoints(ctx, tx, s.ProposerID, proposerDelta); err != nil {
			return err
		}
	}
	if receiverDelta != 0 {
		if err := store.AddUserPoints(ctx, tx, s.ReceiverID, receiverDelta); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a swap and its messages. Items held by a swap that had not
// finished become active again.
func (l *Ledger) Delete(ctx context.Context, swapID, actorID int64) error {
	unlock := l.locks.Lock(swapID)
	defer unlock()

	var s *model.Swap
	err := l.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		s, err = participantSwap(ctx, tx, swapID, actorID)
		if err != nil {
			return err
		}

		if !model.SwapTerminal(s.Status) {
			for _, itemID := range []int64{s.ProposerItemID, s.ReceiverItemID} {
				if err := store.SetItemStatus(ctx, tx, itemID, model.ItemStatusActive); err != nil {
					return err
				}
			}
		}
		return store.DeleteSwap(ctx, tx, swapID)
	})
	if err != nil {
		return err
	}

	slog.Info("swap deleted", "swap", swapID, "user", actorID, "status", s.Status)
	l.publish(ctx, events.SwapDeleted, s, actorID)
	return nil
}

// Get returns a swap the viewer participates in, with both items attached.
func (l *Ledger) Get(ctx context.Context, swapID, viewerID int64) (*model.Swap, error) {
	s, err := participantSwap(ctx, l.db, swapID, viewerID)
	if err != nil {
		return nil, err
	}

	counts, err := store.UnreadCounts(ctx, l.db, viewerID)
	if err != nil {
		return nil, err
	}
	s.UnreadCount = counts[s.ID]

	if err := l.attachItems(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Lookup returns any swap with its items attached. It does not check who is
// asking; callers use it for moderation.
func (l *Ledger) Lookup(ctx context.Context, swapID int64) (*model.Swap, error) {
	s, err := store.GetSwap(ctx, l.db, swapID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, apperr.Newf(apperr.CodeNotFound, "swap %d not found", swapID)
	}
	if err := l.attachItems(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Inbox is a user's swaps together with their unread message total.
type Inbox struct {
	Swaps       []model.Swap `json:"swaps"`
	TotalUnread int          `json:"total_unread"`
}

// List returns every swap the user participates in, newest first.
func (l *Ledger) List(ctx context.Context, userID int64) (*Inbox, error) {
	swaps, err := store.ListSwapsForUser(ctx, l.db, userID)
	if err != nil {
		return nil, err
	}
	counts, err := store.UnreadCounts(ctx, l.db, userID)
	if err != nil {
		return nil, err
	}

	inbox := &Inbox{Swaps: make([]model.Swap, 0, len(swaps))}
	for i := range swaps {
		s := &swaps[i]
		s.UnreadCount = counts[s.ID]
		inbox.TotalUnread += s.UnreadCount
		if err := l.attachItems(ctx, s); err != nil {
			return nil, err
		}
		inbox.Swaps = append(inbox.Swaps, *s)
	}
	return inbox, nil
}

func (l *Ledger) attachItems(ctx context.Context, s *model.Swap) error {
	var err error
	if s.ProposerItem, err = store.GetItem(ctx, l.db, s.ProposerItemID); err != nil {
		return err
	}
	if s.ReceiverItem, err = store.GetItem(ctx, l.db, s.ReceiverItemID); err != nil {
		return err
	}
	return nil
}
