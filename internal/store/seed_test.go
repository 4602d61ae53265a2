package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/homelist/internal/domain"
)

func TestSeedDatabase_Integrity(t *testing.T) {
	db, err := SeedDatabase()
	require.NoError(t, err)

	users := make(map[string]domain.User)
	emails := make(map[string]bool)
	for _, u := range db.Users {
		assert.NotEmpty(t, u.Password, "seed users can log in")
		assert.True(t, domain.ValidRoles[u.Role], "user %s role %q", u.ID, u.Role)
		assert.False(t, emails[u.Email], "duplicate email %s", u.Email)
		emails[u.Email] = true
		users[u.ID] = u
	}

	agentUsers := make(map[string]bool)
	for _, a := range db.Agents {
		u, ok := users[a.AgentUserID]
		require.True(t, ok, "agent %s links to unknown user", a.ID)
		assert.Equal(t, domain.RoleAgent, u.Role)
		assert.False(t, agentUsers[a.AgentUserID], "two agent records for one user")
		agentUsers[a.AgentUserID] = true
	}

	listings := make(map[string]bool)
	for _, l := range db.Listings {
		poster, ok := users[l.PostedByUserID]
		require.True(t, ok, "listing %s posted by unknown user", l.ID)
		assert.Equal(t, domain.RoleAgent, poster.Role)
		assert.False(t, l.PostedAt.IsZero())
		listings[l.ID] = true
	}

	for _, f := range db.Favorites {
		assert.True(t, listings[f.ListingID])
	}

	for _, c := range db.Conversations {
		require.Len(t, c.Participants, 2)
		require.NotEmpty(t, c.Messages)
		last := c.Messages[len(c.Messages)-1]
		assert.True(t, c.LastMessageAt.Equal(last.Timestamp))
		for _, m := range c.Messages {
			assert.True(t, c.HasParticipant(m.SenderID))
			assert.Equal(t, c.ID, m.ConversationID)
		}
	}

	assert.NotNil(t, db.SavedSearches)
	assert.NotNil(t, db.PasswordResetTokens)
}

func TestSeedDatabase_FreshCopies(t *testing.T) {
	a, err := SeedDatabase()
	require.NoError(t, err)
	b, err := SeedDatabase()
	require.NoError(t, err)

	a.Users[0].Name = "changed"
	assert.NotEqual(t, "changed", b.Users[0].Name)
}
