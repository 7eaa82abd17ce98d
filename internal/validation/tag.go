package validation

import (
	"fmt"

	"github.com/asaskevich/govalidator"

	"github.com/fastygo/taskboard/domain"
)

type CreateTagInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func CreateTag(in CreateTagInput) (CreateTagInput, error) {
	name, err := requiredText("name", in.Name, MaxTagName,
		"Tag name is required", fmt.Sprintf("Tag name must be at most %d characters", MaxTagName))
	if err != nil {
		return in, err
	}
	if !govalidator.Matches(in.Color, hexColorPattern) {
		return in, domain.NewValidationError("color", "Must be a valid hex color")
	}
	return CreateTagInput{Name: name, Color: in.Color}, nil
}

func TagID(in IDInput) (IDInput, error) {
	return in, checkID("id", in.ID, "Invalid tag ID")
}
