package domain

import "time"

// BlogTranslation - переведенные поля статьи
type BlogTranslation struct {
	Title           string `json:"title"`
	Excerpt         string `json:"excerpt"`
	Content         string `json:"content"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
}

// BlogPost - статья блога. Переводы заполняет внешний сервис перевода.
type BlogPost struct {
	ID              int64           `json:"id"`
	Slug            string          `json:"slug"`
	Title           string          `json:"title"`
	Excerpt         string          `json:"excerpt"`
	Content         string          `json:"content"`
	MetaTitle       string          `json:"meta_title"`
	MetaDescription string          `json:"meta_description"`
	Image           string          `json:"image"`
	Arabic          BlogTranslation `json:"ar"`
	Farsi           BlogTranslation `json:"fa"`
	CreatedAt       time.Time       `json:"created_at"`
}
