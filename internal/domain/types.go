package domain

import "time"

// Role is the account role of a User.
type Role string

const (
	RoleBuyer Role = "buyer"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// ValidRoles defines the allowed user roles.
var ValidRoles = map[Role]bool{
	RoleBuyer: true,
	RoleAgent: true,
	RoleAdmin: true,
}

// ListingType distinguishes sale ads from rental ads.
type ListingType string

const (
	ListingSale ListingType = "sale"
	ListingRent ListingType = "rent"
)

// PropertyType is the kind of property being advertised.
type PropertyType string

const (
	PropertyApartment PropertyType = "apartment"
	PropertyHouse     PropertyType = "house"
	PropertyLand      PropertyType = "land"
	PropertyOffice    PropertyType = "office"
	PropertyShophouse PropertyType = "shophouse"
	PropertyVilla     PropertyType = "villa"
)

// PropertyTypes lists every property type in display order.
var PropertyTypes = []PropertyType{
	PropertyApartment,
	PropertyHouse,
	PropertyLand,
	PropertyOffice,
	PropertyShophouse,
	PropertyVilla,
}

// ListingStatus is the lifecycle state of a Listing.
type ListingStatus string

const (
	StatusActive  ListingStatus = "active"
	StatusSold    ListingStatus = "sold"
	StatusRented  ListingStatus = "rented"
	StatusExpired ListingStatus = "expired"
)

// Price units offered by the posting form.
const (
	UnitVND      = "VND"
	UnitUSD      = "USD"
	UnitPerMonth = "/tháng"
)

// Placeholder images used when a record has none of its own.
const (
	DefaultAvatarURL       = "https://picsum.photos/40/40?grayscale"
	DefaultListingImageURL = "https://picsum.photos/800/600?random=1"
)

// User is an account. Email is unique across users.
type User struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Email     string `json:"email" yaml:"email"`
	Phone     string `json:"phone" yaml:"phone"`
	Role      Role   `json:"role" yaml:"role"`
	AvatarURL string `json:"avatarUrl" yaml:"avatarUrl"`
	Password  string `json:"password,omitempty" yaml:"password,omitempty"` // store-internal only
}

// Public returns a copy of u without its password.
// Every user value handed out of the service layer passes through here.
func (u User) Public() User {
	u.Password = ""
	return u
}

// Agent is the business profile linked to exactly one agent-role User.
type Agent struct {
	ID            string  `json:"id" yaml:"id"`
	Name          string  `json:"name" yaml:"name"`
	Phone         string  `json:"phone" yaml:"phone"`
	Email         string  `json:"email" yaml:"email"`
	LogoURL       string  `json:"logoUrl" yaml:"logoUrl"`
	AgentUserID   string  `json:"agentUserId" yaml:"agentUserId"`
	Rating        float64 `json:"rating" yaml:"rating"` // 0-5
	TotalListings int     `json:"totalListings" yaml:"totalListings"`
}

// Coords is a WGS84 position.
type Coords struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Listing is a property advertisement.
type Listing struct {
	ID             string        `json:"id" yaml:"id"`
	Title          string        `json:"title" yaml:"title"`
	Description    string        `json:"description" yaml:"description"`
	Price          int64         `json:"price" yaml:"price"`
	PriceUnit      string        `json:"priceUnit" yaml:"priceUnit"` // "VND", "USD", "/tháng"
	Type           ListingType   `json:"type" yaml:"type"`
	PropertyType   PropertyType  `json:"propertyType" yaml:"propertyType"`
	Area           float64       `json:"area" yaml:"area"` // m²
	Bedrooms       int           `json:"bedrooms" yaml:"bedrooms"`
	Bathrooms      int           `json:"bathrooms" yaml:"bathrooms"`
	Address        string        `json:"address" yaml:"address"`
	District       string        `json:"district" yaml:"district"`
	City           string        `json:"city" yaml:"city"`
	Coords         Coords        `json:"coords" yaml:"coords"`
	Images         []string      `json:"images" yaml:"images"` // URLs or data URLs, stored as given
	PostedByUserID string        `json:"postedByUserId" yaml:"postedByUserId"`
	PostedAt       time.Time     `json:"postedAt" yaml:"postedAt"`
	Status         ListingStatus `json:"status" yaml:"status"`
	Views          int64         `json:"views" yaml:"views"`
	ContactClicks  int64         `json:"contactClicks" yaml:"contactClicks"`
	IsHidden       bool          `json:"isHidden" yaml:"isHidden"`
}

// Favorite joins a user to a listing. (UserID, ListingID) is unique.
type Favorite struct {
	ID        string    `json:"id" yaml:"id"`
	UserID    string    `json:"userId" yaml:"userId"`
	ListingID string    `json:"listingId" yaml:"listingId"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// SavedSearch is a named filter set a user can re-run later.
type SavedSearch struct {
	ID        string         `json:"id" yaml:"id"`
	UserID    string         `json:"userId" yaml:"userId"`
	Name      string         `json:"name" yaml:"name"`
	Filters   ListingFilters `json:"filters" yaml:"filters"`
	CreatedAt time.Time      `json:"createdAt" yaml:"createdAt"`
}

// Message is an immutable chat message.
type Message struct {
	ID             string    `json:"id" yaml:"id"`
	ConversationID string    `json:"conversationId" yaml:"conversationId"`
	SenderID       string    `json:"senderId" yaml:"senderId"`
	Text           string    `json:"text" yaml:"text"`
	Timestamp      time.Time `json:"timestamp" yaml:"timestamp"`
}

// Conversation is a message thread between participants.
// At most one conversation exists per participant set.
type Conversation struct {
	ID            string    `json:"id" yaml:"id"`
	Participants  []string  `json:"participants" yaml:"participants"`
	Messages      []Message `json:"messages" yaml:"messages"`
	LastMessageAt time.Time `json:"lastMessageAt" yaml:"lastMessageAt"` // tracks the newest message
}

// HasParticipant reports whether userID takes part in c.
func (c Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// SameParticipants reports whether c has exactly the given participant set,
// ignoring order.
func (c Conversation) SameParticipants(ids []string) bool {
	if len(c.Participants) != len(ids) {
		return false
	}
	for _, id := range ids {
		if !c.HasParticipant(id) {
			return false
		}
	}
	for _, p := range c.Participants {
		found := false
		for _, id := range ids {
			if id == p {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// PasswordResetToken is a single-use credential for resetting a password.
type PasswordResetToken struct {
	ID        string    `json:"id" yaml:"id"`
	UserID    string    `json:"userId" yaml:"userId"`
	Token     string    `json:"token" yaml:"token"`
	ExpiresAt time.Time `json:"expiresAt" yaml:"expiresAt"`
}

// Expired reports whether the token is past its deadline at now.
func (t PasswordResetToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
