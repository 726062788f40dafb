package swap

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/erazemk/rewear/internal/apperr"
	"github.com/erazemk/rewear/internal/events"
	"github.com/erazemk/rewear/internal/model"
	"github.com/erazemk/rewear/internal/store"
)

// participantSwap loads a swap and checks that userID takes part in it.
func participantSwap(ctx context.Context, db store.DBTX, swapID, userID int64) (*model.Swap, error) {
	s, err := store.GetSwap(ctx, db, swapID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, apperr.Newf(apperr.CodeNotFound, "swap %d not found", swapID)
	}
	if !s.IsParticipant(userID) {
		return nil, apperr.Newf(apperr.CodeUnauthorized, "user %d is not a participant in swap %d", userID, swapID)
	}
	return s, nil
}

// SendMessage appends a message from senderID to the swap's thread. Messages
// may be sent in any swap status.
func (l *Ledger) SendMessage(ctx context.Context, swapID, senderID int64, content string) (*model.Message, error) {
	var s *model.Swap
	var msg *model.Message
	err := l.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		s, err = participantSwap(ctx, tx, swapID, senderID)
		if err != nil {
			return err
		}

		content = strings.TrimSpace(content)
		if content == "" {
			return apperr.New(apperr.CodeEmptyMessage, "message cannot be empty")
		}

		msg, err = store.CreateMessage(ctx, tx, swapID, senderID, content)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("swap message sent", "swap", swapID, "user", senderID, "to", s.Counterpart(senderID), "message", msg.ID)
	l.publish(ctx, events.MessageSent, s, senderID)
	return msg, nil
}

// Messages returns the swap's messages, oldest first. Reading does not change
// any read marks.
func (l *Ledger) Messages(ctx context.Context, swapID, requesterID int64) ([]model.Message, error) {
	if _, err := participantSwap(ctx, l.db, swapID, requesterID); err != nil {
		return nil, err
	}

	messages, err := store.ListMessages(ctx, l.db, swapID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []model.Message{}
	}
	return messages, nil
}

// MarkRead marks every message currently in the swap as read by userID.
func (l *Ledger) MarkRead(ctx context.Context, swapID, userID int64) error {
	return l.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := participantSwap(ctx, tx, swapID, userID); err != nil {
			return err
		}
		return store.MarkRead(ctx, tx, swapID, userID)
	})
}
