package demoserver

// PageVersion is one rendering of a demo page.
type PageVersion struct {
	HTML        string
	ContentType string
	Headers     map[string]string
}

// PageDefinition holds all versions of a single page.
type PageDefinition struct {
	Path        string
	Description string
	Versions    map[int]PageVersion
}

// MaxVersion returns the highest version number the page defines.
func (p PageDefinition) MaxVersion() int {
	maxV := 1
	for v := range p.Versions {
		if v > maxV {
			maxV = v
		}
	}
	return maxV
}

// version returns the requested version or the closest lower one.
func (p PageDefinition) version(v int) PageVersion {
	for ; v >= 1; v-- {
		if pv, ok := p.Versions[v]; ok {
			return pv
		}
	}
	return p.Versions[1]
}

// GetAllPages returns all demo page definitions.
func GetAllPages() []PageDefinition {
	return []PageDefinition{
		homePage(),
		productPage(),
		dealsPage(),
		newsPage(),
	}
}

func homePage() PageDefinition {
	return PageDefinition{
		Path:        "/",
		Description: "Shop front with navigation",
		Versions: map[int]PageVersion{
			1: {HTML: `<!DOCTYPE html>
<html>
<head><title>Demo Shop</title></head>
<body>
    <h1>Demo Shop</h1>
    <nav id="nav">
        <a href="/product/widget">Widget</a> |
        <a href="/deals">Deals</a> |
        <a href="/news">News</a>
    </nav>
    <p id="banner">Welcome!</p>
</body>
</html>`},
			2: {HTML: `<!DOCTYPE html>
<html>
<head><title>Demo Shop</title></head>
<body>
    <h1>Demo Shop</h1>
    <nav id="nav">
        <a href="/product/widget">Widget</a> |
        <a href="/deals">Deals</a> |
        <a href="/news">News</a>
    </nav>
    <p id="banner">Summer SALE: 20% off everything</p>
</body>
</html>`},
		},
	}
}

func productPage() PageDefinition {
	return PageDefinition{
		Path:        "/product/widget",
		Description: "Product page whose stock status flips between versions",
		Versions: map[int]PageVersion{
			1: {HTML: `<!DOCTYPE html>
<html>
<head><title>Widget</title></head>
<body>
    <div id="product">
        <h2>Widget</h2>
        <span class="price">Price: 19.99 EUR</span>
        <div id="availability"><span class="status">In Stock</span>
            <a href="/cart/add?item=widget">Add to cart</a>
        </div>
    </div>
</body>
</html>`},
			2: {HTML: `<!DOCTYPE html>
<html>
<head><title>Widget</title></head>
<body>
    <div id="product">
        <h2>Widget</h2>
        <span class="price">Price: 19.99 EUR</span>
        <div id="availability"><span class="status">Out of Stock</span>
            <a href="/notify?item=widget">Notify me</a>
        </div>
    </div>
</body>
</html>`},
			3: {HTML: `<!DOCTYPE html>
<html>
<head><title>Widget</title></head>
<body>
    <div id="product">
        <h2>Widget</h2>
        <span class="price">Price: 24.99 EUR</span>
        <div id="availability"><span class="status">In Stock</span> <em>only 2 left</em>
            <a href="/cart/add?item=widget">Add to cart</a>
        </div>
    </div>
</body>
</html>`},
		},
	}
}

func dealsPage() PageDefinition {
	return PageDefinition{
		Path:        "/deals",
		Description: "Deal list; later versions add deals, repeat links and link off-site",
		Versions: map[int]PageVersion{
			1: {HTML: `<!DOCTYPE html>
<html>
<head><title>Deals</title></head>
<body>
    <ul id="deals">
        <li><a href="/deal/1">Deal: 2 for 1 widgets</a></li>
    </ul>
</body>
</html>`},
			2: {HTML: `<!DOCTYPE html>
<html>
<head><title>Deals</title></head>
<body>
    <ul id="deals">
        <li><a href="/deal/1">Deal: 2 for 1 widgets</a></li>
        <li><a href="/deal/2">Deal: free shipping</a></li>
        <li><a href="/deal/2">Deal: free shipping</a></li>
    </ul>
</body>
</html>`},
			3: {HTML: `<!DOCTYPE html>
<html>
<head><title>Deals</title></head>
<body>
    <ul id="deals">
        <li><a href="/deal/2">Deal: free shipping</a></li>
        <li><a href="https://partner.example.com/deal/3">Deal: partner bundle</a></li>
    </ul>
</body>
</html>`},
		},
	}
}

func newsPage() PageDefinition {
	return PageDefinition{
		Path:        "/news",
		Description: "News feed for text extraction and diffs",
		Versions: map[int]PageVersion{
			1: {HTML: `<!DOCTYPE html>
<html>
<head><title>News</title></head>
<body>
    <article id="latest"><p>Store opening hours: 9:00 - 18:00</p></article>
</body>
</html>`},
			2: {
				HTML: `<!DOCTYPE html>
<html>
<head><title>News</title></head>
<body>
    <article id="latest"><p>Store opening hours: 8:00 - 20:00</p></article>
</body>
</html>`,
				Headers: map[string]string{"Cache-Control": "no-store"},
			},
		},
	}
}
