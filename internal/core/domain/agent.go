package domain

import "time"

// Agent - профиль агента по недвижимости
type Agent struct {
	ID                   int64     `json:"id"`
	Username             string    `json:"username"`
	Name                 string    `json:"name"`
	Email                string    `json:"email"`
	WhatsappNumber       string    `json:"whatsapp_number"`
	PhoneNumber          string    `json:"phone_number"`
	ProfileImageURL      string    `json:"profile_image_url"`
	IntroductionVideoURL string    `json:"introduction_video_url"`
	Description          string    `json:"description"`
	YearsOfExperience    int       `json:"years_of_experience"`
	TotalBusinessDeals   int       `json:"total_business_deals"`
	RankTopPerforming    *int      `json:"rank_top_performing"`
	FaName               string    `json:"fa_name"`
	FaDescription        string    `json:"fa_description"`
	CreatedAt            time.Time `json:"created_at"`
}

// AgentChanges - частичное изменение профиля. nil-поля не трогаются.
type AgentChanges struct {
	Username             *string `json:"username"`
	Name                 *string `json:"name"`
	Email                *string `json:"email"`
	WhatsappNumber       *string `json:"whatsapp_number"`
	PhoneNumber          *string `json:"phone_number"`
	ProfileImageURL      *string `json:"profile_image_url"`
	IntroductionVideoURL *string `json:"introduction_video_url"`
	Description          *string `json:"description"`
	YearsOfExperience    *int    `json:"years_of_experience"`
	TotalBusinessDeals   *int    `json:"total_business_deals"`
	RankTopPerforming    *int    `json:"rank_top_performing"`
	FaName               *string `json:"fa_name"`
	FaDescription        *string `json:"fa_description"`
}

// Apply переносит заданные поля в профиль
func (c AgentChanges) Apply(a *Agent) {
	setString(&a.Username, c.Username)
	setString(&a.Name, c.Name)
	setString(&a.Email, c.Email)
	setString(&a.WhatsappNumber, c.WhatsappNumber)
	setString(&a.PhoneNumber, c.PhoneNumber)
	setString(&a.ProfileImageURL, c.ProfileImageURL)
	setString(&a.IntroductionVideoURL, c.IntroductionVideoURL)
	setString(&a.Description, c.Description)
	setString(&a.FaName, c.FaName)
	setString(&a.FaDescription, c.FaDescription)
	if c.YearsOfExperience != nil {
		a.YearsOfExperience = *c.YearsOfExperience
	}
	if c.TotalBusinessDeals != nil {
		a.TotalBusinessDeals = *c.TotalBusinessDeals
	}
	if c.RankTopPerforming != nil {
		v := *c.RankTopPerforming
		a.RankTopPerforming = &v
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
