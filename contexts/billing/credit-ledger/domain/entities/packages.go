package entities

import "strings"

type CreditPackage struct {
	PackageID string
	Credits   int
	PriceUSD  float64
	Popular   bool
}

var creditPackages = []CreditPackage{
	{PackageID: "starter", Credits: 100, PriceUSD: 9.99},
	{PackageID: "pro", Credits: 500, PriceUSD: 39.99, Popular: true},
	{PackageID: "enterprise", Credits: 1000, PriceUSD: 69.99},
}

func CreditPackages() []CreditPackage {
	return append([]CreditPackage(nil), creditPackages...)
}

func FindCreditPackage(packageID string) (CreditPackage, bool) {
	id := strings.ToLower(strings.TrimSpace(packageID))
	for _, item := range creditPackages {
		if item.PackageID == id {
			return item, true
		}
	}
	return CreditPackage{}, false
}
