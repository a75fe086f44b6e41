package check

// The structured-data category rewards markup that is present rather than
// flagging its absence: a page with no schema simply earns no credit here,
// while the actionable advice lives in the technical category's
// structured_data_present check.
func schemaChecks() []Spec {
	specs := []Spec{
		{
			Name:     "product_schema",
			Category: CategorySchema,
			Severity: SeverityRecommendation,
			Points:   20,
			Eval: func(in *Input) Result {
				if in.Schema().HasProduct {
					return passNote(true, "Product schema found")
				}
				return Result{Value: false}
			},
		},
		{
			Name:     "breadcrumb_schema",
			Category: CategorySchema,
			Severity: SeverityRecommendation,
			Points:   15,
			Eval: func(in *Input) Result {
				if in.Schema().HasBreadcrumb {
					return passNote(true, "BreadcrumbList schema found")
				}
				return Result{Value: false}
			},
		},
		{
			Name:     "faq_schema",
			Category: CategorySchema,
			Severity: SeverityRecommendation,
			Points:   15,
			Eval: func(in *Input) Result {
				if in.Schema().HasFAQ {
					return passNote(true, "FAQ schema found")
				}
				return Result{Value: false}
			},
		},
		{
			Name:     "local_business_schema",
			Category: CategorySchema,
			Severity: SeverityRecommendation,
			Points:   20,
			Eval: func(in *Input) Result {
				if in.Schema().HasLocalBusiness {
					return passNote(true, "LocalBusiness or Organization schema found")
				}
				return Result{Value: false}
			},
		},
		{
			Name:     "review_schema",
			Category: CategorySchema,
			Severity: SeverityRecommendation,
			Points:   15,
			Eval: func(in *Input) Result {
				if in.Schema().HasReview {
					return passNote(true, "Review or rating schema found")
				}
				return Result{Value: false}
			},
		},
		{
			Name:     "breadcrumb_navigation",
			Category: CategorySchema,
			Severity: SeverityRecommendation,
			Points:   15,
			Eval: func(in *Input) Result {
				if in.Schema().BreadcrumbNav {
					return passNote(true, "Breadcrumb navigation found")
				}
				return Result{Value: false}
			},
		},
		{
			Name:     "faq_question_count",
			Category: CategorySchema,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				if !in.Schema().HasFAQ {
					return skip(0)
				}
				return info(in.Schema().FAQCount)
			},
		},
		{
			Name:     "breadcrumb_levels",
			Category: CategorySchema,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				if !in.Schema().BreadcrumbNav {
					return skip(0)
				}
				return info(in.Schema().BreadcrumbLevels)
			},
		},
	}

	productFields := []struct {
		name string
		read func(*SchemaStats) string
	}{
		{"product_name", func(s *SchemaStats) string { return s.ProductName }},
		{"product_price", func(s *SchemaStats) string { return s.ProductPrice }},
		{"product_currency", func(s *SchemaStats) string { return s.ProductCurrency }},
		{"product_availability", func(s *SchemaStats) string { return s.ProductAvailability }},
		{"product_rating", func(s *SchemaStats) string { return s.ProductRating }},
		{"product_review_count", func(s *SchemaStats) string { return s.ProductReviewCount }},
	}
	for _, f := range productFields {
		read := f.read
		specs = append(specs, Spec{
			Name:     f.name,
			Category: CategorySchema,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				if !in.Schema().HasProduct {
					return skip("")
				}
				return info(read(in.Schema()))
			},
		})
	}
	return specs
}
