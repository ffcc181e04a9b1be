package document

import "time"

// Document is one row of the documents table. Data holds the JSON body.
type Document struct {
	Collection string    `gorm:"column:collection;primaryKey;size:64"`
	ID         string    `gorm:"column:id;primaryKey;size:255"`
	Data       string    `gorm:"column:data;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}
