package catalog

import "github.com/jhoicas/Caja-api/internal/domain/entity"

// Static instantánea fija, para pruebas y datos de ejemplo.
type Static struct {
	Products []*entity.Product
	Clients  []*entity.Client
}

var _ Snapshot = (*Static)(nil)

func (s *Static) Product(id string) (*entity.Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return nil, false
}

func (s *Static) Client(id string) (*entity.Client, bool) {
	for _, c := range s.Clients {
		if c.ID == id {
			return c.Clone(), true
		}
	}
	return nil, false
}

func (s *Static) CurrentProducts() []*entity.Product {
	out := make([]*entity.Product, len(s.Products))
	for i, p := range s.Products {
		out[i] = p.Clone()
	}
	return out
}

func (s *Static) CurrentClients() []*entity.Client {
	out := make([]*entity.Client, len(s.Clients))
	for i, c := range s.Clients {
		out[i] = c.Clone()
	}
	return out
}
