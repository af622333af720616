package store

import (
	"context"

	"github.com/crewforge/backoffice/internal/common/cnst"
	"github.com/crewforge/backoffice/internal/events"
	"github.com/crewforge/backoffice/internal/model"
)

// CreateTeam persists a team and enrolls its owner as the first member.
func (s *Store) CreateTeam(ctx context.Context, team *model.Team) error {
	var member *model.TeamMember
	err := s.transaction(ctx, func(ctx context.Context) error {
		tx := s.conn(ctx)
		if err := tx.Create(team).Error; err != nil {
			return err
		}
		member = &model.TeamMember{
			TeamID: team.ID,
			UserID: team.OwnerID,
			Role:   cnst.MemberRoleOwner,
		}
		return tx.Create(member).Error
	})
	if err != nil {
		return err
	}
	s.publishMemberAdded(ctx, team, member)
	return nil
}

// GetTeam fetches a team by id with its members.
func (s *Store) GetTeam(ctx context.Context, id uint) (*model.Team, error) {
	var team model.Team
	if err := s.conn(ctx).Preload("Members").First(&team, id).Error; err != nil {
		return nil, translate(err)
	}
	return &team, nil
}

// ListTeamsForUser returns the teams the user is a member of, ordered by
// membership creation so the first entry is the user's active team.
func (s *Store) ListTeamsForUser(ctx context.Context, userID uint) ([]*model.Team, error) {
	var teams []*model.Team
	err := s.conn(ctx).
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", userID).
		Order("team_members.created_at asc, team_members.id asc").
		Find(&teams).Error
	return teams, err
}

// AddMember enrolls a user into a team. The (user, team) pair is unique; a
// duplicate insert surfaces as a constraint violation from the driver.
func (s *Store) AddMember(ctx context.Context, teamID, userID uint, role string) (*model.TeamMember, error) {
	if role == "" {
		role = cnst.MemberRoleMember
	}
	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	member := &model.TeamMember{
		TeamID: teamID,
		UserID: userID,
		Role:   role,
	}
	if err := s.conn(ctx).Create(member).Error; err != nil {
		return nil, err
	}
	s.publishMemberAdded(ctx, team, member)
	return member, nil
}

// RemoveMember removes a user from a team.
func (s *Store) RemoveMember(ctx context.Context, teamID, userID uint) error {
	res := s.conn(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&model.TeamMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) publishMemberAdded(ctx context.Context, team *model.Team, member *model.TeamMember) {
	if s.bus == nil {
		return
	}
	s.bus.PublishMemberAdded(ctx, events.MemberAdded{Team: team, Member: member})
}
