package notebook

import (
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/color"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/models"
)

// defaultNotebooks builds the notebooks seeded on first launch, in preset order.
func (s *Store) defaultNotebooks() []models.Notebook {
	now := s.now().UnixMilli()
	notebooks := make([]models.Notebook, 0, len(color.DefaultNotebooks))
	for _, p := range color.DefaultNotebooks {
		notebooks = append(notebooks, models.Notebook{
			ID:                     s.newID(),
			Name:                   p.Name,
			Color:                  p.Color,
			BackgroundColor:        p.BackgroundColor,
			TextColor:              p.TextColor,
			BackgroundImageOpacity: models.Float(models.DefaultNotebookImageOpacity),
			Notes:                  []models.Note{},
			CreatedAt:              now,
		})
	}
	return notebooks
}
