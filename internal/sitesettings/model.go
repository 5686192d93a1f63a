package sitesettings

import "time"

// SingletonID is the only id a HomepageSettings document may have.
const SingletonID = 1

const (
	DefaultHeroHeading    = "Clear, practical legal advice"
	DefaultHeroSubheading = "A solicitor's practice offering straightforward advice on property, employment, family and commercial matters. Book a consultation or send an enquiry."
)

type HomepageSettings struct {
	ID             int       `bson:"_id" json:"-"`
	HeroHeading    string    `bson:"hero_heading" json:"hero_heading"`
	HeroSubheading string    `bson:"hero_subheading" json:"hero_subheading"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

func Defaults() HomepageSettings {
	return HomepageSettings{
		ID:             SingletonID,
		HeroHeading:    DefaultHeroHeading,
		HeroSubheading: DefaultHeroSubheading,
	}
}

type UpdateRequest struct {
	HeroHeading    string `json:"hero_heading" validate:"required,max=200"`
	HeroSubheading string `json:"hero_subheading" validate:"max=1000"`
}
