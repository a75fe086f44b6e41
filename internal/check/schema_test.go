package check

import "testing"

const productFixture = `<html><head>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "Product",
  "name": "Burr Grinder X2",
  "offers": {
    "@type": "Offer",
    "price": "129.99",
    "priceCurrency": "EUR",
    "availability": "https://schema.org/InStock"
  },
  "aggregateRating": {"@type": "AggregateRating", "ratingValue": 4.6, "reviewCount": 213}
}
</script>
</head><body>
<nav class="breadcrumbs"><ol><li>Home</li><li>Grinders</li><li>X2</li></ol></nav>
</body></html>`

func TestProductSchema(t *testing.T) {
	in := inputFromHTML(t, productFixture)

	if res := runCheck(t, "product_schema", in); res.Credit != 1 {
		t.Fatal("product schema should earn full credit")
	}
	if res := runCheck(t, "product_name", in); res.Value != "Burr Grinder X2" {
		t.Errorf("product_name = %v", res.Value)
	}
	if res := runCheck(t, "product_price", in); res.Value != "129.99" {
		t.Errorf("product_price = %v", res.Value)
	}
	if res := runCheck(t, "product_currency", in); res.Value != "EUR" {
		t.Errorf("product_currency = %v", res.Value)
	}
	if res := runCheck(t, "product_rating", in); res.Value != "4.6" {
		t.Errorf("product_rating = %v", res.Value)
	}
	if res := runCheck(t, "product_review_count", in); res.Value != "213" {
		t.Errorf("product_review_count = %v", res.Value)
	}
}

func TestProductFieldsSkipWithoutProduct(t *testing.T) {
	in := inputFromHTML(t, "<html><body></body></html>")
	for _, name := range []string{"product_name", "product_price", "product_rating"} {
		if res := runCheck(t, name, in); !res.Skipped {
			t.Errorf("%s should skip without a product schema", name)
		}
	}
}

func TestSchemaAbsenceIsQuiet(t *testing.T) {
	in := inputFromHTML(t, "<html><body><p>plain page</p></body></html>")
	for _, name := range []string{"product_schema", "faq_schema", "local_business_schema", "review_schema", "breadcrumb_schema"} {
		res := runCheck(t, name, in)
		if res.Issue != "" {
			t.Errorf("%s: absence should not raise an issue, got %q", name, res.Issue)
		}
		if res.Credit != 0 {
			t.Errorf("%s: absence credit = %v, want 0", name, res.Credit)
		}
	}
}

func TestGraphPayloadIsFlattened(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">
{"@context":"https://schema.org","@graph":[
  {"@type":"Organization","name":"Example"},
  {"@type":"BreadcrumbList"},
  {"@type":"FAQPage","mainEntity":[{"@type":"Question"},{"@type":"Question"},{"@type":"Question"}]}
]}
</script>
</head><body></body></html>`
	in := inputFromHTML(t, html)

	if res := runCheck(t, "local_business_schema", in); res.Credit != 1 {
		t.Error("Organization inside @graph should count")
	}
	if res := runCheck(t, "breadcrumb_schema", in); res.Credit != 1 {
		t.Error("BreadcrumbList inside @graph should count")
	}
	if res := runCheck(t, "faq_question_count", in); res.Value != 3 {
		t.Errorf("faq_question_count = %v, want 3", res.Value)
	}
}

func TestBreadcrumbNavigation(t *testing.T) {
	in := inputFromHTML(t, productFixture)
	if res := runCheck(t, "breadcrumb_navigation", in); res.Credit != 1 {
		t.Error("breadcrumb nav class should count")
	}
	if res := runCheck(t, "breadcrumb_levels", in); res.Value != 3 {
		t.Errorf("breadcrumb_levels = %v, want 3", res.Value)
	}
}

func TestInvalidJSONLDIsIgnored(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">{not json at all</script>
<script type="application/ld+json">{"@type":"Review"}</script>
</head><body></body></html>`
	in := inputFromHTML(t, html)
	if res := runCheck(t, "review_schema", in); res.Credit != 1 {
		t.Error("valid block should still be read after an invalid one")
	}
}

func TestLocalBusinessSubtypeMatches(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">{"@type":"DentistLocalBusiness","name":"Bright Smiles"}</script>
</head><body></body></html>`
	in := inputFromHTML(t, html)
	if res := runCheck(t, "local_business_schema", in); res.Credit != 1 {
		t.Error("LocalBusiness subtypes should match")
	}
}

func TestTypeArrayHandled(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">{"@type":["Product","IndividualProduct"],"name":"Kit"}</script>
</head><body></body></html>`
	in := inputFromHTML(t, html)
	if res := runCheck(t, "product_schema", in); res.Credit != 1 {
		t.Error("@type arrays should be handled")
	}
}
