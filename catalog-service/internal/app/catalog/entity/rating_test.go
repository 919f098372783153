package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAverageRating_Empty(t *testing.T) {
	assert.Equal(t, 0.0, AverageRating(nil))
	assert.Equal(t, 0.0, AverageRating([]Review{}))
}

func TestAverageRating_Single(t *testing.T) {
	avg := AverageRating([]Review{{Rating: 4}})
	assert.Equal(t, 4.0, avg)
}

func TestAverageRating_Sequence(t *testing.T) {
	// Среднее пересчитывается после каждого добавления
	reviews := []Review{{Rating: 5}}
	assert.Equal(t, 5.0, AverageRating(reviews))

	reviews = append(reviews, Review{Rating: 3})
	assert.Equal(t, 4.0, AverageRating(reviews))

	reviews = append(reviews, Review{Rating: 4})
	assert.InDelta(t, 4.0, AverageRating(reviews), 0.0001)
}

func TestAverageRating_NotRounded(t *testing.T) {
	avg := AverageRating([]Review{{Rating: 5}, {Rating: 4}})
	assert.Equal(t, 4.5, avg)
}

func TestIsValidBookGenre(t *testing.T) {
	assert.True(t, IsValidBookGenre("fantasy"))
	assert.True(t, IsValidBookGenre("non-fiction"))
	assert.False(t, IsValidBookGenre("poetry"))
	assert.False(t, IsValidBookGenre(""))
	// Регистр значим
	assert.False(t, IsValidBookGenre("Fantasy"))
}

func TestIsValidClothingType(t *testing.T) {
	assert.True(t, IsValidClothingType("sports gear"))
	assert.True(t, IsValidClothingType("shirt"))
	assert.False(t, IsValidClothingType("hat"))
	assert.False(t, IsValidClothingType(""))
}

func TestCreateBookRequest_Validate(t *testing.T) {
	req := &CreateBookRequest{
		Name:        "The Hobbit",
		Price:       25.5,
		Genre:       "fantasy",
		Author:      "J.R.R. Tolkien",
		Publication: "Allen & Unwin",
	}
	assert.Empty(t, req.Validate())

	bad := &CreateBookRequest{Name: "  ", Price: -1, Genre: "poetry"}
	violations := bad.Validate()
	assert.Len(t, violations, 5)
}

func TestCreateClothingRequest_Validate(t *testing.T) {
	req := &CreateClothingRequest{Name: "Running Shoes", Price: 60, ItemType: "shoes"}
	assert.Empty(t, req.Validate())

	bad := &CreateClothingRequest{Name: "x", Price: 10, ItemType: "hat"}
	violations := bad.Validate()
	assert.Len(t, violations, 1)
	assert.Contains(t, violations[0], "hat")
}

func TestValidationError_Message(t *testing.T) {
	err := NewValidationError("name is required", "price cannot be negative")
	assert.Equal(t, "name is required; price cannot be negative", err.Error())
}
