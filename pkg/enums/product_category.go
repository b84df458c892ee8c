package enums

import "fmt"

// ProductCategory classifies a catalog product for cart purposes.
type ProductCategory string

const (
	ProductCategoryGuide        ProductCategory = "guide"
	ProductCategoryPhysical     ProductCategory = "physical"
	ProductCategoryConsultation ProductCategory = "consultation"
	ProductCategoryTshirts      ProductCategory = "tshirts"
	ProductCategoryAccessory    ProductCategory = "accessory"
	ProductCategoryOther        ProductCategory = "other"
)

var validProductCategories = []ProductCategory{
	ProductCategoryGuide,
	ProductCategoryPhysical,
	ProductCategoryConsultation,
	ProductCategoryTshirts,
	ProductCategoryAccessory,
	ProductCategoryOther,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
