package clubservice

import "github.com/m04kA/SMC-CourtBookingService/internal/domain"

// Club модель клуба из ClubService
type Club struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	ManagerIDs []int64 `json:"manager_ids"`
}

// ToDomain преобразует ответ в доменную модель
func (c *Club) ToDomain() *domain.Club {
	return &domain.Club{
		ID:         c.ID,
		Name:       c.Name,
		ManagerIDs: c.ManagerIDs,
	}
}
