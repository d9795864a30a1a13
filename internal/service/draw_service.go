package service

import (
	"context"
	"errors"
	"time"

	"gift-exchange/internal/draw"
	"gift-exchange/internal/metrics"
	"gift-exchange/internal/model"

	"github.com/rs/zerolog"
)

// drawService implements DrawService.
type drawService struct {
	state   *SharedState
	roster  *model.Roster
	solver  *draw.Solver
	metrics metrics.Recorder
	logger  zerolog.Logger
}

// NewDrawService creates a new draw service.
func NewDrawService(
	state *SharedState,
	roster *model.Roster,
	solver *draw.Solver,
	recorder metrics.Recorder,
	logger zerolog.Logger,
) DrawService {
	if recorder == nil {
		recorder = metrics.NewNop()
	}
	return &drawService{
		state:   state,
		roster:  roster,
		solver:  solver,
		metrics: recorder,
		logger:  logger.With().Str("service", "draw").Logger(),
	}
}

// Validate checks mapping against the roster.
func (s *drawService) Validate(ctx context.Context, mapping model.Assignments) (*model.ValidateResponse, error) {
	err := draw.Validate(s.roster, mapping)
	if err == nil {
		s.metrics.RecordValidation("valid")
		return &model.ValidateResponse{Valid: true}, nil
	}

	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		return nil, err
	}

	s.metrics.RecordValidation(domainErr.Code)
	return &model.ValidateResponse{
		Valid:       false,
		Error:       domainErr.Code,
		Message:     domainErr.Message,
		Participant: domainErr.Participant,
	}, nil
}

// AcceptManual records a single manual entry.
func (s *drawService) AcceptManual(ctx context.Context, actingID string, req *model.ManualRequest) (*model.DrawStatus, error) {
	saved, err := s.state.Update(ctx, func(current *model.State) (*model.State, error) {
		next, err := draw.AcceptManual(s.roster, current.Assignments, actingID, req.GiverID, req.RecipientID)
		if err != nil {
			s.recordManualRejection(err)
			return nil, err
		}
		current.Assignments = next
		return current, nil
	})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("acting_participant", actingID).
			Msg("manual entry not recorded")
		return nil, err
	}

	s.metrics.RecordManualEntry("accepted")
	// The recipient is not logged; the draw is secret.
	s.logger.Info().
		Str("giver", actingID).
		Msg("manual entry recorded")

	status := draw.Status(s.roster, saved.Assignments)
	status.Message = "Assignment recorded for everyone."
	return status, nil
}

func (s *drawService) recordManualRejection(err error) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		s.metrics.RecordManualEntry(domainErr.Code)
	}
}

// Complete fills every unassigned giver.
func (s *drawService) Complete(ctx context.Context) (*model.DrawStatus, error) {
	start := time.Now()
	var result *draw.Result

	saved, err := s.state.Update(ctx, func(current *model.State) (*model.State, error) {
		res, err := s.solver.Complete(s.roster, current.Assignments)
		if err != nil {
			return nil, err
		}
		result = res
		if res.AlreadyComplete {
			return nil, nil
		}
		current.Assignments = res.Assignments
		return current, nil
	})
	if err != nil {
		if errors.Is(err, model.ErrInfeasible) {
			s.metrics.RecordDrawInfeasible()
			s.logger.Warn().Msg("no valid completion for the current entries")
		} else {
			s.logger.Error().Err(err).Msg("failed to complete draw")
		}
		return nil, err
	}

	status := draw.Status(s.roster, saved.Assignments)
	if result.AlreadyComplete {
		status.AlreadyComplete = true
		status.Message = "Everyone already has an assignment."
		return status, nil
	}

	s.metrics.RecordDrawCompleted(result.Filled, result.Attempts, time.Since(start).Seconds())
	s.logger.Info().
		Int("filled", result.Filled).
		Int("attempts", result.Attempts).
		Dur("duration", time.Since(start)).
		Msg("draw completed")

	status.Message = "Remaining names assigned successfully!"
	return status, nil
}

// Clear removes every assignment.
func (s *drawService) Clear(ctx context.Context) (*model.DrawStatus, error) {
	saved, err := s.state.Update(ctx, func(current *model.State) (*model.State, error) {
		current.Assignments = model.Assignments{}
		return current, nil
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to clear draw")
		return nil, err
	}

	s.logger.Info().Msg("draw cleared")

	status := draw.Status(s.roster, saved.Assignments)
	status.Message = "All assignments cleared."
	return status, nil
}

// Reveal returns participantID's recipient and their wishlist.
func (s *drawService) Reveal(ctx context.Context, participantID string) (*model.RevealResponse, error) {
	participant, err := draw.LookupParticipant(s.roster, participantID)
	if err != nil {
		return nil, err
	}

	current, stale, err := s.state.Read(ctx)
	if err != nil {
		return nil, err
	}

	recipientID, ok := draw.Reveal(current.Assignments, participant.ID)
	if !ok {
		return nil, model.ErrNotAssigned
	}

	recipientName := s.roster.DisplayName(recipientID)
	return &model.RevealResponse{
		ParticipantID: participant.ID,
		RecipientID:   recipientID,
		RecipientName: recipientName,
		Message:       "You are shopping for " + recipientName + ".",
		Wishlist:      MergeWishlists(s.roster, current.Wishlists)[recipientID],
		Stale:         stale,
	}, nil
}

// Status summarises the draw.
func (s *drawService) Status(ctx context.Context) (*model.DrawStatus, error) {
	current, stale, err := s.state.Read(ctx)
	if err != nil {
		return nil, err
	}

	status := draw.Status(s.roster, current.Assignments)
	status.Stale = stale
	return status, nil
}

// Options lists the recipients actingID may still record.
func (s *drawService) Options(ctx context.Context, actingID string) ([]model.RecipientOption, error) {
	if _, err := draw.LookupParticipant(s.roster, actingID); err != nil {
		return nil, err
	}

	current, _, err := s.state.Read(ctx)
	if err != nil {
		return nil, err
	}

	options := draw.Options(s.roster, current.Assignments, actingID)
	if options == nil {
		options = []model.RecipientOption{}
	}
	return options, nil
}
