package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/m3rciful/quizbot/core/logger"
	"github.com/m3rciful/quizbot/internal/users"
)

// Service binds the engine to a store: it loads the record, runs a turn and
// persists the result before the caller delivers the replies.
type Service struct {
	engine *Engine
	store  users.Store
}

// NewService wires engine and store.
func NewService(engine *Engine, store users.Store) *Service {
	return &Service{engine: engine, store: store}
}

// Engine exposes the underlying engine.
func (s *Service) Engine() *Engine {
	return s.engine
}

// Start overwrites the sender's record with the initial state.
func (s *Service) Start(ctx context.Context, id users.Identity) ([]Reply, error) {
	rec, replies := s.engine.Start(id)
	if err := s.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("conversation: start %d: %w", id.ID, err)
	}
	logger.Info(ctx, "conversation", "quiz.start",
		slog.Int64("user_id", id.ID),
		slog.Int("tasks", s.engine.Catalog().Len()),
	)
	return replies, nil
}

// Help returns the help text without reading or writing the store.
func (s *Service) Help() []Reply {
	return s.engine.Help()
}

// Message runs one text turn. A sender without a stored record is treated
// as if they had sent /start; their text is not consumed as a name.
func (s *Service) Message(ctx context.Context, id users.Identity, text string) ([]Reply, error) {
	rec, err := s.store.Load(ctx, id.ID)
	if errors.Is(err, users.ErrNotFound) {
		logger.Info(ctx, "conversation", "quiz.implicit_start",
			slog.Int64("user_id", id.ID),
		)
		return s.Start(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	turn, err := s.engine.Handle(ctx, rec, text)
	if err != nil {
		return nil, err
	}
	if turn.Changed {
		if err := s.store.Save(ctx, turn.Record); err != nil {
			return nil, fmt.Errorf("conversation: save %d: %w", id.ID, err)
		}
	}
	if last := turn.Path[len(turn.Path)-1]; last == StateCompleted && len(turn.Path) > 1 {
		logger.Info(ctx, "conversation", "quiz.finished",
			slog.Int64("user_id", id.ID),
			slog.Int("score", turn.Record.Score),
			slog.Int("tasks", s.engine.Catalog().Len()),
		)
	}
	return turn.Replies, nil
}

// Stats summarizes every stored record.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	recs, err := s.store.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	return s.engine.Summarize(recs), nil
}
