package models

import "time"

// DefaultDisplayPicture is used for accounts that sign up without an image
const DefaultDisplayPicture = "https://res.cloudinary.com/daqdfmbbo/image/upload/v1696683871/avatar.png"

// User represents an account in the system
type User struct {
	ID             string    `json:"_id" bson:"_id"`
	GivenName      string    `json:"givenName" bson:"givenName"`
	FamilyName     string    `json:"familyName" bson:"familyName"`
	DisplayPicture string    `json:"displayPicture" bson:"displayPicture"`
	Bio            *string   `json:"bio,omitempty" bson:"bio,omitempty"`
	Email          string    `json:"email" bson:"email"`
	Password       string    `json:"-" bson:"password"`
	SavedPosts     []string  `json:"savedPosts" bson:"savedPosts"`
	Followers      []string  `json:"followers" bson:"followers"`
	Following      []string  `json:"following" bson:"following"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
}

// FullName returns the given and family name joined by a space
func (u *User) FullName() string {
	return u.GivenName + " " + u.FamilyName
}

// PostPicture references an image held by the media delegate
type PostPicture struct {
	ID  string `json:"_id" bson:"_id"`
	URL string `json:"URL" bson:"URL"`
}

// Post represents an image post. The author name and picture are a snapshot
// taken when the post was created.
type Post struct {
	ID             string      `json:"_id" bson:"_id"`
	Author         string      `json:"author" bson:"author"`
	GivenName      string      `json:"givenName" bson:"givenName"`
	FamilyName     string      `json:"familyName" bson:"familyName"`
	DisplayPicture string      `json:"displayPicture" bson:"displayPicture"`
	PostPicture    PostPicture `json:"postPicture" bson:"postPicture"`
	Caption        string      `json:"caption" bson:"caption"`
	Likes          []string    `json:"likes" bson:"likes"`
	CreatedAt      time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// Comment represents a comment on a post
type Comment struct {
	ID             string    `json:"_id" bson:"_id"`
	Author         string    `json:"author" bson:"author"`
	DisplayPicture string    `json:"displayPicture" bson:"displayPicture"`
	CommentedPost  string    `json:"commentedPost" bson:"commentedPost"`
	Comment        string    `json:"comment" bson:"comment"`
	Likes          []string  `json:"likes" bson:"likes"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Credentials holds a freshly issued access/refresh token pair
type Credentials struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse is returned by signup and signin
type AuthResponse struct {
	ID             string `json:"_id"`
	GivenName      string `json:"givenName"`
	FamilyName     string `json:"familyName"`
	DisplayPicture string `json:"displayPicture"`
	Email          string `json:"email"`
	Credentials
}

// Image is the result of a media upload
type Image struct {
	PublicID string
	URL      string
}
