package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories
const (
	CategoryAuth  = "auth"
	CategoryAdmin = "admin"
	CategoryTeam  = "team"
)

// Event types
const (
	EventUserOnboarded       = "user_onboarded"
	EventRoleChanged         = "role_changed"
	EventTeamRegistered      = "team_registered"
	EventTeamUpdated         = "team_updated"
	EventTeamWithdrawn       = "team_withdrawn"
	EventHackathonDeleted    = "hackathon_deleted"
	EventAnnouncementDeleted = "announcement_deleted"
	EventSubmissionScored    = "submission_scored"
)

// Event represents an audit event. Identifiers are the portal's UUIDs as strings.
type Event struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp      time.Time          `bson:"timestamp" json:"timestamp"`
	OrganizationID string             `bson:"organization_id" json:"organization_id"`

	Category  string `bson:"category" json:"category"`
	EventType string `bson:"event_type" json:"event_type"`

	ActorID  string `bson:"actor_id,omitempty" json:"actor_id,omitempty"`
	TargetID string `bson:"target_id,omitempty" json:"target_id,omitempty"`

	IP string `bson:"ip,omitempty" json:"ip,omitempty"`

	Details map[string]string `bson:"details,omitempty" json:"details,omitempty"`
}

// QueryFilter defines filters for querying audit events.
type QueryFilter struct {
	OrganizationID string
	Category       string
	EventType      string
	Limit          int64
	Offset         int64
}

// Store persists audit events in MongoDB.
type Store struct {
	c *mongo.Collection
}

// NewStore creates a new audit Store.
func NewStore(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// EnsureIndexes creates the indexes used by Query.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{
			{Key: "organization_id", Value: 1},
			{Key: "category", Value: 1},
			{Key: "event_type", Value: 1},
			{Key: "timestamp", Value: -1},
		}},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Log records an audit event.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// Query returns events for one organization, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	query := bson.M{"organization_id": filter.OrganizationID}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.EventType != "" {
		query["event_type"] = filter.EventType
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit).
		SetSkip(filter.Offset)

	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	events := []Event{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
