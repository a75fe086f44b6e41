package check

import "fmt"

func imageChecks() []Spec {
	specs := []Spec{
		{
			Name:     "images_alt_complete",
			Category: CategoryImages,
			Severity: SeverityWarning,
			Points:   15,
			Eval: func(in *Input) Result {
				img := in.Images()
				if img.Total == 0 {
					return skip(0)
				}
				if img.WithoutAlt > 0 {
					return fail(img.WithoutAlt, fmt.Sprintf("%d of %d images missing alt text", img.WithoutAlt, img.Total))
				}
				return passNote(0, "All images have alt attributes")
			},
		},
		{
			Name:     "images_alt_mostly_present",
			Category: CategoryImages,
			Severity: SeverityCritical,
			Points:   15,
			Eval: func(in *Input) Result {
				img := in.Images()
				if img.Total == 0 {
					return skip(0)
				}
				ratio := float64(img.WithoutAlt) / float64(img.Total)
				if ratio > 0.5 {
					return fail(ratio, fmt.Sprintf("Most images are missing alt text (%d of %d)", img.WithoutAlt, img.Total))
				}
				return pass(ratio)
			},
		},
		{
			Name:     "images_lazy_loading",
			Category: CategoryImages,
			Severity: SeverityRecommendation,
			Points:   10,
			Eval: func(in *Input) Result {
				img := in.Images()
				if img.Total <= 3 {
					return skip(img.Lazy)
				}
				if img.Lazy == 0 {
					return fail(0, "Implement lazy loading for images")
				}
				return passNote(img.Lazy, "Lazy loading is in use")
			},
		},
		{
			Name:     "images_modern_format",
			Category: CategoryImages,
			Severity: SeverityRecommendation,
			Points:   5,
			Eval: func(in *Input) Result {
				img := in.Images()
				if img.Total == 0 {
					return skip(0)
				}
				if img.WebP == 0 {
					return fail(0, "Consider using WebP format for better compression")
				}
				return passNote(img.WebP, "Modern image formats in use")
			},
		},
		{
			Name:     "images_properly_sized",
			Category: CategoryImages,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Page.Find("img[width][height]").Length())
			},
		},
		{
			Name:     "avg_alt_length",
			Category: CategoryImages,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Images().AvgAltLength)
			},
		},
		{
			Name:     "figure_elements",
			Category: CategoryImages,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Images().Figures)
			},
		},
		{
			Name:     "picture_elements",
			Category: CategoryImages,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Images().Pictures)
			},
		},
	}

	counters := []struct {
		name string
		read func(*ImageStats) int
	}{
		{"total_images", func(s *ImageStats) int { return s.Total }},
		{"images_without_alt", func(s *ImageStats) int { return s.WithoutAlt }},
		{"images_with_empty_alt", func(s *ImageStats) int { return s.EmptyAlt }},
		{"images_with_title", func(s *ImageStats) int { return s.WithTitle }},
		{"images_without_src", func(s *ImageStats) int { return s.WithoutSrc }},
		{"images_with_lazy_loading", func(s *ImageStats) int { return s.Lazy }},
		{"images_with_srcset", func(s *ImageStats) int { return s.WithSrcset }},
		{"images_with_sizes", func(s *ImageStats) int { return s.WithSizes }},
		{"images_webp", func(s *ImageStats) int { return s.WebP }},
		{"images_svg", func(s *ImageStats) int { return s.SVG }},
		{"images_png", func(s *ImageStats) int { return s.PNG }},
		{"images_jpg", func(s *ImageStats) int { return s.JPG }},
		{"images_gif", func(s *ImageStats) int { return s.GIF }},
		{"images_internal", func(s *ImageStats) int { return s.Internal }},
		{"images_external", func(s *ImageStats) int { return s.External }},
		{"images_descriptive_filenames", func(s *ImageStats) int { return s.Descriptive }},
		{"images_decorative", func(s *ImageStats) int { return s.Decorative }},
	}
	for _, c := range counters {
		read := c.read
		specs = append(specs, Spec{
			Name:     c.name,
			Category: CategoryImages,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(read(in.Images()))
			},
		})
	}
	return specs
}
