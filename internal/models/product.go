package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name" validate:"required"`
	ProductCode string             `bson:"productCode" json:"productCode"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category" validate:"required"`
	Subcategory string             `bson:"subcategory" json:"subcategory" validate:"required"`
	ApparelType string             `bson:"apparelType,omitempty" json:"apparelType,omitempty"`
	Price       float64            `bson:"price" json:"price" validate:"required,gt=0"`
	Sizes       []string           `bson:"sizes" json:"sizes"`
	Colors      []string           `bson:"colors" json:"colors"`
	Images      []string           `bson:"images" json:"images"`
	InStock     bool               `bson:"inStock" json:"inStock"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Metadata is one catalog taxonomy document: a main category with the
// subcategories and apparel types the admin dashboard offers when creating
// products.
type Metadata struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Category      string             `bson:"category" json:"category" validate:"required"`
	Subcategories []string           `bson:"subcategories" json:"subcategories"`
	ApparelTypes  []string           `bson:"apparelTypes" json:"apparelTypes"`
}
