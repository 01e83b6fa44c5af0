package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/boloflier/bolo-system/internal/core/domain"
)

type boloRequest struct {
	Name      string `json:"name"     form:"name"`
	Category  string `json:"category" form:"category"`
	Summary   string `json:"summary"  form:"summary"`
	Race      string `json:"race"     form:"race"`
	Sex       string `json:"sex"      form:"sex"`
	Height    string `json:"height"   form:"height"`
	Weight    string `json:"weight"   form:"weight"`
	HairColor string `json:"hair_color" form:"hair_color"`
	Agency    string `json:"agency"     form:"agency"`
}

// dto shapes the request into the service-boundary DTO. The record author is
// the authenticated caller, never client input.
func (r boloRequest) dto(id string, c echo.Context) domain.BoloDTO {
	author, _ := c.Get("username").(string)
	return domain.BoloDTO{
		ID:        id,
		Name:      r.Name,
		Category:  r.Category,
		Summary:   r.Summary,
		Race:      r.Race,
		Sex:       r.Sex,
		Height:    r.Height,
		Weight:    r.Weight,
		HairColor: r.HairColor,
		Agency:    r.Agency,
		Author:    author,
	}
}
