package usecase

// ruleKey identifies a rule list by brand and application
type ruleKey struct {
	Brand       string
	Application string
}

// sizeBand maps an inclusive panel-diagonal range (inches) to a product
type sizeBand struct {
	Min     float64
	Max     float64
	Product string
}

func (b sizeBand) contains(size float64) bool {
	return size >= b.Min && size <= b.Max
}

// productRules lists the size bands for each brand and application.
// Bands may overlap. Within a list, earlier bands win ties that no supplier hint decides.
var productRules = map[ruleKey][]sizeBand{
	{"Apple", "Smartphone"}: {
		{4.6, 4.8, "iPhone SE"},
		{5.5, 6.19, "iPhone (standard)"},
		{6.06, 6.19, "iPhone Pro"},
		{6.6, 6.75, "iPhone Plus"},
		{6.68, 6.9, "iPhone Pro Max"},
	},
	{"Apple", "Tablet"}: {
		{7.9, 8.3, "iPad mini"},
		{10.2, 10.9, "iPad"},
		{10.86, 11.1, "iPad Air"},
		{10.97, 11.1, "iPad Pro 11\""},
		{12.85, 12.95, "iPad Pro 12.9\""},
		{12.96, 13.1, "iPad Pro 13\""},
	},
	{"Apple", "Notebook"}: {
		{13.3, 13.6, "MacBook Air 13\""},
		{14.0, 14.3, "MacBook Pro 14\""},
		{15.2, 15.4, "MacBook Air 15\""},
		{16.0, 16.3, "MacBook Pro 16\""},
	},
	{"Apple", "Smartwatch"}: {
		{1.5, 1.8, "Apple Watch"},
		{1.9, 2.0, "Apple Watch Ultra"},
	},
	{"Samsung", "Smartphone"}: {
		{6.1, 6.25, "Galaxy S"},
		{6.55, 6.69, "Galaxy S+"},
		{6.7, 6.9, "Galaxy S Ultra"},
		{6.7, 6.7, "Galaxy Z Flip"},
		{7.6, 8.0, "Galaxy Z Fold"},
	},
	{"Samsung", "Tablet"}: {
		{10.9, 11.1, "Galaxy Tab S"},
		{12.3, 12.5, "Galaxy Tab S+"},
		{14.5, 14.7, "Galaxy Tab S Ultra"},
	},
	{"Huawei", "Smartphone"}: {
		{6.6, 6.8, "Pura"},
		{6.7, 6.9, "Mate"},
		{7.8, 8.0, "Mate X"},
	},
	{"Huawei", "Tablet"}: {
		{10.95, 11.5, "MatePad 11\""},
		{12.5, 12.7, "MatePad Pro 12.6\""},
		{13.1, 13.3, "MatePad Pro 13.2\""},
	},
	{"Google", "Smartphone"}: {
		{6.1, 6.35, "Pixel"},
		{6.3, 6.8, "Pixel Pro"},
		{7.6, 8.0, "Pixel Fold"},
	},
	{"Xiaomi", "Smartphone"}: {
		{6.3, 6.4, "Xiaomi (standard)"},
		{6.6, 6.75, "Xiaomi Pro"},
		{6.7, 6.8, "Xiaomi Ultra"},
	},
	{"Dell", "Notebook"}: {
		{13.3, 13.4, "XPS 13"},
		{14.0, 14.5, "XPS 14"},
		{16.0, 16.3, "XPS 16"},
	},
}

// supplierCustomers lists the brands each panel maker is known to supply
var supplierCustomers = map[string][]string{
	"SDC":      {"Apple", "Samsung", "Google", "Xiaomi", "Dell", "Vivo", "Oppo"},
	"LGD":      {"Apple", "Google", "Dell", "HP", "Lenovo"},
	"BOE":      {"Apple", "Huawei", "Honor", "Xiaomi", "Lenovo", "Dell", "HP"},
	"CSOT":     {"Samsung", "Xiaomi", "Honor"},
	"Visionox": {"Honor", "Huawei", "Xiaomi"},
	"Tianma":   {"Huawei", "Xiaomi", "Honor"},
	"Sharp":    {"Apple"},
}

// supplierHints lists panel makers that single out a product among overlapping bands
var supplierHints = map[string][]string{
	"iPhone Pro":     {"LGD"},
	"iPhone Pro Max": {"SDC", "LGD"},
	"iPad Air":       {"LGD", "BOE"},
	"iPad Pro 11\"":  {"SDC"},
	"Galaxy S Ultra": {"SDC"},
	"Mate":           {"BOE"},
	"Xiaomi Ultra":   {"CSOT"},
}

// brandSuppliers is the inverse of supplierCustomers, built once at init
var brandSuppliers = buildBrandSuppliers(supplierCustomers)

// hintSets is supplierHints as lookup sets, built once at init
var hintSets = buildHintSets(supplierHints)

func buildBrandSuppliers(customers map[string][]string) map[string]map[string]bool {
	index := make(map[string]map[string]bool)
	for maker, brands := range customers {
		for _, brand := range brands {
			if index[brand] == nil {
				index[brand] = make(map[string]bool)
			}
			index[brand][maker] = true
		}
	}
	return index
}

func buildHintSets(hints map[string][]string) map[string]map[string]bool {
	sets := make(map[string]map[string]bool, len(hints))
	for product, makers := range hints {
		set := make(map[string]bool, len(makers))
		for _, maker := range makers {
			set[maker] = true
		}
		sets[product] = set
	}
	return sets
}

// isKnownSupplier reports whether maker is a known panel supplier of brand
func isKnownSupplier(brand, maker string) bool {
	return brandSuppliers[brand][maker]
}
