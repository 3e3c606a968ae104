package warehouse

import (
	"github.com/leapstack-labs/starmill/internal/staging"
)

// BuildProductDim denormalizes the product dataset, resolving category and
// brand names through left-outer lookups into the reference datasets. A
// product whose category or brand is unknown keeps its row with a nil name.
// The natural product key passes through unchanged; rows with an unparsable
// key are skipped, and duplicates keep the first occurrence.
func BuildProductDim(products, categories, brands *staging.Dataset) (ProductDim, error) {
	if err := products.Require("product_id", "product_name", "category_id", "brand_id", "model_year", "list_price"); err != nil {
		return nil, err
	}
	if err := categories.Require("category_id", "category_name"); err != nil {
		return nil, err
	}
	if err := brands.Require("brand_id", "brand_name"); err != nil {
		return nil, err
	}

	categoryNames := lookupNames(categories, "category_id", "category_name")
	brandNames := lookupNames(brands, "brand_id", "brand_name")

	seen := make(map[int]struct{})
	var dim ProductDim
	for row := 0; row < products.Len(); row++ {
		id, ok := products.Int(row, "product_id")
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		p := ProductRow{
			ProductID:   id,
			ProductName: products.Value(row, "product_name"),
		}
		p.ModelYear, _ = products.Int(row, "model_year")
		p.ListPrice, _ = products.Float(row, "list_price")
		if categoryID, ok := products.Int(row, "category_id"); ok {
			if name, ok := categoryNames[categoryID]; ok {
				p.CategoryName = &name
			}
		}
		if brandID, ok := products.Int(row, "brand_id"); ok {
			if name, ok := brandNames[brandID]; ok {
				p.BrandName = &name
			}
		}
		dim = append(dim, p)
	}
	return dim, nil
}

// Index returns the product-key set used by the fact assembler.
func (d ProductDim) Index() map[int]struct{} {
	idx := make(map[int]struct{}, len(d))
	for _, r := range d {
		idx[r.ProductID] = struct{}{}
	}
	return idx
}

// lookupNames builds an id -> name map from a reference dataset. The first
// occurrence of an id wins.
func lookupNames(ds *staging.Dataset, idColumn, nameColumn string) map[int]string {
	out := make(map[int]string, ds.Len())
	for row := 0; row < ds.Len(); row++ {
		id, ok := ds.Int(row, idColumn)
		if !ok {
			continue
		}
		if _, dup := out[id]; dup {
			continue
		}
		out[id] = ds.Value(row, nameColumn)
	}
	return out
}
