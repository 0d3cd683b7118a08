package store

import (
	"context"
	"slices"

	"mealbook/internal/client"
)

// Follow tracks the set of user IDs the current user follows.
type Follow struct {
	api     client.Client
	session *Session

	State       AsyncState
	ToggleState AsyncState

	FollowingIDs []string
}

// NewFollow creates a follow store bound to the session's token.
func NewFollow(api client.Client, session *Session) *Follow {
	return &Follow{api: api, session: session}
}

// IsFollowing reports membership in the following set.
func (s *Follow) IsFollowing(targetID string) bool {
	return slices.Contains(s.FollowingIDs, targetID)
}

// FetchFollowing replaces the following set from the server.
func (s *Follow) FetchFollowing(ctx context.Context, userID string) error {
	s.State.begin()
	following, err := s.api.FollowData(ctx, s.session.Token, userID)
	if err != nil {
		s.State.reject(err)
		return err
	}

	s.State.fulfill()
	ids := make([]string, 0, len(following))
	for _, u := range following {
		ids = append(ids, u.ID)
	}
	s.FollowingIDs = ids
	return nil
}

// ToggleFollow follows or unfollows based on the declared prior state,
// then flips membership by the local set's own view rather than a
// server-confirmed list. When isFollowing disagrees with the local set,
// the request and the flip move in opposite directions until the next
// FetchFollowing reconverges.
func (s *Follow) ToggleFollow(ctx context.Context, targetID string, isFollowing bool) error {
	s.ToggleState.begin()

	var err error
	if isFollowing {
		err = s.api.Unfollow(ctx, s.session.Token, targetID)
	} else {
		err = s.api.Follow(ctx, s.session.Token, targetID)
	}
	if err != nil {
		s.ToggleState.reject(err)
		return err
	}

	s.ToggleState.fulfill()
	if slices.Contains(s.FollowingIDs, targetID) {
		s.FollowingIDs = slices.DeleteFunc(s.FollowingIDs, func(id string) bool {
			return id == targetID
		})
	} else {
		s.FollowingIDs = append(s.FollowingIDs, targetID)
	}
	return nil
}
