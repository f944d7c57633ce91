package commerce

import (
	"context"

	"github.com/MSP-Team3/kyeol-storefront/internal/domain"
	"github.com/MSP-Team3/kyeol-storefront/pkg/pagination"
)

// Products fetches a page of the channel's catalog.
func (c *Client) Products(ctx context.Context, channel string, params pagination.Params) (pagination.Connection[domain.Product], error) {
	var out struct {
		Products *struct {
			Edges []struct {
				Node struct {
					ID        string `json:"id"`
					Slug      string `json:"slug"`
					Name      string `json:"name"`
					Thumbnail *struct {
						URL string `json:"url"`
					} `json:"thumbnail"`
					Pricing *struct {
						PriceRange *struct {
							Start *struct {
								Gross struct {
									Amount   float64 `json:"amount"`
									Currency string  `json:"currency"`
								} `json:"gross"`
							} `json:"start"`
						} `json:"priceRange"`
					} `json:"pricing"`
				} `json:"node"`
			} `json:"edges"`
			PageInfo struct {
				EndCursor   string `json:"endCursor"`
				HasNextPage bool   `json:"hasNextPage"`
			} `json:"pageInfo"`
		} `json:"products"`
	}

	vars := map[string]any{"channel": channel, "first": params.First}
	if params.After != "" {
		vars["after"] = params.After
	}
	if err := c.execute(ctx, "productList", queryProductList, vars, "", &out); err != nil {
		return pagination.Connection[domain.Product]{}, err
	}
	if out.Products == nil {
		return pagination.NewConnection[domain.Product](nil, "", false), nil
	}

	products := make([]domain.Product, len(out.Products.Edges))
	for i, edge := range out.Products.Edges {
		p := domain.Product{
			ID:   edge.Node.ID,
			Slug: edge.Node.Slug,
			Name: edge.Node.Name,
		}
		if edge.Node.Thumbnail != nil {
			p.Thumbnail = edge.Node.Thumbnail.URL
		}
		if pricing := edge.Node.Pricing; pricing != nil && pricing.PriceRange != nil && pricing.PriceRange.Start != nil {
			p.Price = domain.Money{
				Amount:   pricing.PriceRange.Start.Gross.Amount,
				Currency: pricing.PriceRange.Start.Gross.Currency,
			}
		}
		products[i] = p
	}

	return pagination.NewConnection(products, out.Products.PageInfo.EndCursor, out.Products.PageInfo.HasNextPage), nil
}
