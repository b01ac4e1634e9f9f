package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"outdoormatch/internal/domain/entity"
	"outdoormatch/internal/domain/repository"
	"outdoormatch/internal/infrastructure/metrics"
	"outdoormatch/pkg/errors"
	"outdoormatch/pkg/logger"
)

type AvailabilityUseCase struct {
	communityRepo repository.CommunityRepository
	userRepo      repository.UserRepository
	tracer        trace.Tracer
}

func NewAvailabilityUseCase(communityRepo repository.CommunityRepository, userRepo repository.UserRepository) *AvailabilityUseCase {
	return &AvailabilityUseCase{
		communityRepo: communityRepo,
		userRepo:      userRepo,
		tracer:        otel.Tracer("outdoormatch/internal/usecase/availability"),
	}
}

// ToggleCommand declares or withdraws availability for one day of one
// community. Clients apply it to their local week before sending it and
// must revert it if ToggleAvailability returns an error.
type ToggleCommand struct {
	CommunityID string
	UserID      string
	Day         int
	Present     bool
}

// Apply is the optimistic projection of the command onto w.
func (c ToggleCommand) Apply(w entity.Week) entity.Week {
	return w.Set(c.Day, c.Present)
}

// Revert undoes Apply for a command that flipped the day.
func (c ToggleCommand) Revert(w entity.Week) entity.Week {
	return w.Set(c.Day, !c.Present)
}

type ToggleResult struct {
	Day     int         `json:"day"`
	Present bool        `json:"present"`
	Week    entity.Week `json:"week"`
	// Confirmed is false when the write landed but the read-back did not;
	// Week is then the optimistic projection.
	Confirmed bool `json:"confirmed"`
}

func (uc *AvailabilityUseCase) ListActiveMembers(ctx context.Context, communityID, requestingUserID string) ([]*entity.Candidate, error) {
	ctx, span := uc.tracer.Start(ctx, "availability.list_active_members",
		trace.WithAttributes(attribute.String("community.id", communityID)))
	defer span.End()

	community, err := uc.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "community lookup failed")
		return nil, err
	}

	ids := entity.RemoveValue(community.ActiveUserIDs(), requestingUserID)
	if len(ids) == 0 {
		return []*entity.Candidate{}, nil
	}

	// ids is ascending and GetByIDs keeps input order, so candidates are
	// ordered by user id.
	users, err := uc.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "member lookup failed")
		return nil, err
	}

	candidates := make([]*entity.Candidate, 0, len(users))
	for _, u := range users {
		candidates = append(candidates, entity.NewCandidate(u, community))
	}

	span.SetAttributes(attribute.Int("candidates", len(candidates)))
	return candidates, nil
}

func (uc *AvailabilityUseCase) ToggleAvailability(ctx context.Context, cmd ToggleCommand) (*ToggleResult, error) {
	if cmd.UserID == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	if !entity.ValidDay(cmd.Day) {
		return nil, errors.Validation(fmt.Sprintf("day must be between 0 and %d", entity.DaysPerWeek-1))
	}

	ctx, span := uc.tracer.Start(ctx, "availability.toggle", trace.WithAttributes(
		attribute.String("community.id", cmd.CommunityID),
		attribute.Int("day", cmd.Day),
		attribute.Bool("present", cmd.Present),
	))
	defer span.End()

	var err error
	if cmd.Present {
		err = uc.communityRepo.AddActiveMember(ctx, cmd.CommunityID, cmd.Day, cmd.UserID)
	} else {
		err = uc.communityRepo.RemoveActiveMember(ctx, cmd.CommunityID, cmd.Day, cmd.UserID)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "toggle failed")
		metrics.IncAvailabilityToggle(cmd.Present, "error")
		return nil, err
	}
	metrics.IncAvailabilityToggle(cmd.Present, "ok")

	result := &ToggleResult{Day: cmd.Day, Present: cmd.Present}

	community, err := uc.communityRepo.GetByID(ctx, cmd.CommunityID)
	if err != nil {
		logger.Warn("Availability for %s in %s written but not read back: %v", cmd.UserID, cmd.CommunityID, err)
		result.Week = cmd.Apply(entity.Week{})
		return result, nil
	}

	result.Week = community.WeekFor(cmd.UserID)
	result.Confirmed = true
	return result, nil
}

// GetAvailability is userID's week in one community.
func (uc *AvailabilityUseCase) GetAvailability(ctx context.Context, communityID, userID string) (entity.Week, error) {
	community, err := uc.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return entity.Week{}, err
	}
	return community.WeekFor(userID), nil
}
