package check

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// securityHeaders are the five response headers the hardening check looks
// for. Presence of each contributes a fifth of the check's points.
var securityHeaders = []string{
	"Strict-Transport-Security",
	"X-XSS-Protection",
	"X-Content-Type-Options",
	"X-Frame-Options",
	"Content-Security-Policy",
}

// systemPagePaths mark utility pages that should normally carry noindex.
var systemPagePaths = []string{
	"/search", "/cart", "/checkout", "/login", "/register", "/account", "/wishlist",
}

func technicalChecks() []Spec {
	specs := []Spec{
		{
			Name:     "uses_https",
			Category: CategoryTechnical,
			Severity: SeverityCritical,
			Points:   20,
			Eval: func(in *Input) Result {
				if !strings.HasPrefix(strings.ToLower(in.Snapshot.FinalURL), "https://") {
					return fail(false, "Page is not served over HTTPS")
				}
				return passNote(true, "Served over HTTPS")
			},
		},
		{
			Name:     "viewport_present",
			Category: CategoryTechnical,
			Severity: SeverityCritical,
			Points:   15,
			Eval: func(in *Input) Result {
				if in.Page.MetaName("viewport") == "" {
					return fail(false, "Missing viewport meta tag - page not mobile-friendly")
				}
				return passNote(true, "Viewport meta tag is set")
			},
		},
		{
			Name:     "viewport_user_scalable",
			Category: CategoryTechnical,
			Severity: SeverityWarning,
			Points:   5,
			Eval: func(in *Input) Result {
				viewport := strings.ToLower(in.Page.MetaName("viewport"))
				if viewport == "" {
					return skip(false)
				}
				if strings.Contains(strings.ReplaceAll(viewport, " ", ""), "user-scalable=no") {
					return fail(false, "Viewport disables zooming - hurts accessibility")
				}
				return pass(true)
			},
		},
		{
			Name:     "viewport_initial_scale",
			Category: CategoryTechnical,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(strings.Contains(strings.ToLower(in.Page.MetaName("viewport")), "initial-scale"))
			},
		},
		{
			Name:     "charset_declared",
			Category: CategoryTechnical,
			Severity: SeverityWarning,
			Points:   8,
			Eval: func(in *Input) Result {
				if in.Page.Find("meta[charset]").Length() > 0 {
					return pass(true)
				}
				if in.Page.Find("meta[http-equiv='Content-Type']").Length() > 0 {
					return pass(true)
				}
				return fail(false, "Missing charset declaration")
			},
		},
		{
			Name:     "doctype_present",
			Category: CategoryTechnical,
			Severity: SeverityWarning,
			Points:   5,
			Eval: func(in *Input) Result {
				head := in.Page.HTML()
				if len(head) > 100 {
					head = head[:100]
				}
				if !strings.Contains(strings.ToLower(head), "<!doctype") {
					return fail(false, "Missing DOCTYPE declaration")
				}
				return pass(true)
			},
		},
		{
			Name:     "html_lang_present",
			Category: CategoryTechnical,
			Severity: SeverityWarning,
			Points:   8,
			Eval: func(in *Input) Result {
				lang := in.Page.Find("html").AttrOr("lang", "")
				if strings.TrimSpace(lang) == "" {
					return fail(false, "Missing lang attribute on <html> tag")
				}
				return pass(lang)
			},
		},
		{
			Name:     "html_dir_attribute",
			Category: CategoryTechnical,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Page.Find("html").AttrOr("dir", ""))
			},
		},
		{
			Name:     "favicon_present",
			Category: CategoryTechnical,
			Severity: SeverityWarning,
			Points:   5,
			Eval: func(in *Input) Result {
				if findFavicon(in) == nil {
					return fail(false, "Add a favicon for brand recognition in search results")
				}
				return pass(true)
			},
		},
		{
			Name:     "favicon_format",
			Category: CategoryTechnical,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				icon := findFavicon(in)
				if icon == nil {
					return info("")
				}
				href := strings.ToLower(icon.AttrOr("href", ""))
				for _, ext := range []string{".svg", ".png", ".ico", ".gif", ".jpg"} {
					if strings.Contains(href, ext) {
						return info(strings.TrimPrefix(ext, "."))
					}
				}
				return info("unknown")
			},
		},
		{
			Name:     "web_app_manifest",
			Category: CategoryTechnical,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Page.Find("link[rel='manifest']").Length() > 0)
			},
		},
		{
			Name:     "structured_data_present",
			Category: CategoryTechnical,
			Severity: SeverityRecommendation,
			Points:   10,
			Eval: func(in *Input) Result {
				schema := in.Schema()
				if len(schema.Types) > 0 || schema.Microdata > 0 || schema.RDFa > 0 {
					return passNote(true, "Structured data markup found")
				}
				return fail(false, "Add structured data (Schema.org) for rich search results")
			},
		},
		{
			Name:     "schema_types",
			Category: CategoryTechnical,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(strings.Join(in.Schema().Types, ", "))
			},
		},
		{
			Name:     "schema_count",
			Category: CategoryTechnical,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(len(in.Schema().Types))
			},
		},
		{
			Name:     "microdata_items",
			Category: CategoryTechnical,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Schema().Microdata)
			},
		},
		{
			Name:     "rdfa_items",
			Category: CategoryTechnical,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Schema().RDFa)
			},
		},
		{
			Name:     "http_status",
			Category: CategoryTechnical,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Snapshot.StatusCode)
			},
		},
		{
			Name:     "response_time",
			Category: CategoryTechnical,
			Severity: SeverityWarning,
			Points:   10,
			Eval: func(in *Input) Result {
				seconds := in.Snapshot.Elapsed.Seconds()
				switch {
				case seconds <= 1:
					return pass(seconds)
				case seconds <= 3:
					return partial(seconds, 0.5, fmt.Sprintf("Response time could be faster (%.2fs)", seconds))
				}
				return fail(seconds, fmt.Sprintf("Slow response time (%.2fs)", seconds))
			},
		},
		{
			Name:     "page_size",
			Category: CategoryTechnical,
			Severity: SeverityWarning,
			Points:   10,
			Eval: func(in *Input) Result {
				kb := float64(in.Snapshot.RawSize) / 1024
				if kb > 3000 {
					return fail(kb, fmt.Sprintf("Large page size (%.0fKB)", kb))
				}
				return pass(kb)
			},
		},
		{
			Name:     "gzip_compression",
			Category: CategoryTechnical,
			Severity: SeverityRecommendation,
			Points:   8,
			Eval: func(in *Input) Result {
				if in.Snapshot.ContentEncoding == "" {
					return fail(false, "Enable GZIP or Brotli compression")
				}
				return passNote(in.Snapshot.ContentEncoding, "Response compression is enabled")
			},
		},
		{
			Name:     "cache_headers",
			Category: CategoryTechnical,
			Severity: SeverityRecommendation,
			Points:   5,
			Eval: func(in *Input) Result {
				snap := in.Snapshot
				if snap.Header("Cache-Control") != "" || snap.Header("ETag") != "" || snap.Header("Last-Modified") != "" {
					return pass(true)
				}
				return fail(false, "Add cache headers for better performance")
			},
		},
		{
			Name:     "security_headers_score",
			Category: CategoryTechnical,
			Severity: SeverityWarning,
			Points:   20,
			Eval: func(in *Input) Result {
				present := 0
				for _, h := range securityHeaders {
					if in.Snapshot.Header(h) != "" {
						present++
					}
				}
				credit := float64(present) / float64(len(securityHeaders))
				if present <= 2 {
					return partial(present, credit, fmt.Sprintf("Only %d of %d recommended security headers present", present, len(securityHeaders)))
				}
				return Result{Value: present, Credit: credit}
			},
		},
		{
			Name:     "render_blocking_js",
			Category: CategoryTechnical,
			Severity: SeverityRecommendation,
			Points:   8,
			Eval: func(in *Input) Result {
				blocking := 0
				in.Page.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
					if _, async := s.Attr("async"); async {
						return
					}
					if _, deferred := s.Attr("defer"); deferred {
						return
					}
					blocking++
				})
				if blocking > 0 {
					return fail(blocking, fmt.Sprintf("%d render-blocking script(s) - add async or defer", blocking))
				}
				return pass(blocking)
			},
		},
		{
			Name:     "render_blocking_css",
			Category: CategoryTechnical,
			Severity: SeverityRecommendation,
			Points:   5,
			Eval: func(in *Input) Result {
				blocking := 0
				in.Page.Find("link[rel='stylesheet']").Each(func(_ int, s *goquery.Selection) {
					media := strings.ToLower(s.AttrOr("media", ""))
					if media == "" || media == "all" {
						blocking++
					}
				})
				if blocking > 3 {
					return fail(blocking, fmt.Sprintf("%d render-blocking stylesheets detected", blocking))
				}
				return pass(blocking)
			},
		},
		{
			Name:     "resource_hints",
			Category: CategoryTechnical,
			Severity: SeverityRecommendation,
			Points:   10,
			Eval: func(in *Input) Result {
				kinds := 0
				for _, rel := range []string{"preload", "preconnect", "prefetch", "dns-prefetch"} {
					if in.Page.Find("link[rel='"+rel+"']").Length() > 0 {
						kinds++
					}
				}
				if kinds == 0 {
					return fail(kinds, "Use resource hints (preconnect, preload) for faster loading")
				}
				return Result{Value: kinds, Credit: float64(kinds) / 4}
			},
		},
		{
			Name:     "page_indexable",
			Category: CategoryTechnical,
			Severity: SeverityCritical,
			Points:   25,
			Eval: func(in *Input) Result {
				robots := strings.ToLower(in.Page.MetaName("robots"))
				headerTag := strings.ToLower(in.Snapshot.Header("X-Robots-Tag"))
				if strings.Contains(robots, "noindex") || strings.Contains(headerTag, "noindex") {
					return fail(false, "Page is set to NOINDEX - will not appear in search results")
				}
				return passNote(true, "Page is indexable")
			},
		},
		{
			Name:     "x_robots_tag",
			Category: CategoryTechnical,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Snapshot.Header("X-Robots-Tag"))
			},
		},
		{
			Name:     "url_length",
			Category: CategoryTechnical,
			Severity: SeverityWarning,
			Points:   5,
			Eval: func(in *Input) Result {
				length := len(in.Snapshot.FinalURL)
				if length > 100 {
					return fail(length, fmt.Sprintf("URL too long (%d chars). Keep URLs under 100 characters.", length))
				}
				return pass(length)
			},
		},
		{
			Name:     "url_no_underscores",
			Category: CategoryTechnical,
			Severity: SeverityRecommendation,
			Points:   3,
			Eval: func(in *Input) Result {
				if strings.Contains(urlPath(in), "_") {
					return fail(false, "Use hyphens instead of underscores in URLs")
				}
				return pass(true)
			},
		},
		{
			Name:     "url_depth",
			Category: CategoryTechnical,
			Severity: SeverityWarning,
			Points:   5,
			Eval: func(in *Input) Result {
				depth := pathDepth(urlPath(in))
				if depth > 4 {
					return fail(depth, fmt.Sprintf("URL too deep (%d levels)", depth))
				}
				return pass(depth)
			},
		},
		{
			Name:     "url_has_parameters",
			Category: CategoryTechnical,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				u, err := url.Parse(in.Snapshot.FinalURL)
				if err != nil {
					return info(false)
				}
				return info(u.RawQuery != "")
			},
		},
		{
			Name:     "url_structure_friendly",
			Category: CategoryTechnical,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				path := urlPath(in)
				friendly := len(in.Snapshot.FinalURL) <= 100 &&
					!strings.Contains(path, "_") &&
					pathDepth(path) <= 4
				return info(friendly)
			},
		},
		{
			Name:     "redirect_chain",
			Category: CategoryTechnical,
			Severity: SeverityWarning,
			Points:   8,
			Eval: func(in *Input) Result {
				redirects := in.Snapshot.Redirects
				if redirects > 1 {
					return fail(redirects, fmt.Sprintf("Redirect chain detected (%d redirects)", redirects))
				}
				return pass(redirects)
			},
		},
		{
			Name:     "system_page_noindex",
			Category: CategoryTechnical,
			Severity: SeverityWarning,
			Points:   5,
			Eval: func(in *Input) Result {
				path := strings.ToLower(urlPath(in))
				system := false
				for _, p := range systemPagePaths {
					if strings.Contains(path, p) {
						system = true
						break
					}
				}
				if !system {
					return skip(false)
				}
				robots := strings.ToLower(in.Page.MetaName("robots"))
				headerTag := strings.ToLower(in.Snapshot.Header("X-Robots-Tag"))
				if !strings.Contains(robots, "noindex") && !strings.Contains(headerTag, "noindex") {
					return fail(true, "System/utility pages should typically be noindexed")
				}
				return pass(true)
			},
		},
		{
			Name:     "hreflang_tags",
			Category: CategoryTechnical,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Page.Find("link[rel='alternate'][hreflang]").Length())
			},
		},
		{
			Name:     "hreflang_x_default",
			Category: CategoryTechnical,
			Severity: SeverityRecommendation,
			Points:   5,
			Eval: func(in *Input) Result {
				tags := in.Page.Find("link[rel='alternate'][hreflang]")
				if tags.Length() == 0 {
					return skip(false)
				}
				found := false
				tags.Each(func(_ int, s *goquery.Selection) {
					if strings.EqualFold(s.AttrOr("hreflang", ""), "x-default") {
						found = true
					}
				})
				if !found {
					return fail(false, "Add x-default hreflang for language fallback")
				}
				return pass(true)
			},
		},
		{
			Name:     "content_language",
			Category: CategoryTechnical,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Snapshot.Header("Content-Language"))
			},
		},
	}

	headers := []struct {
		name   string
		header string
	}{
		{"content_type_header", "Content-Type"},
		{"server_header", "Server"},
		{"x_powered_by", "X-Powered-By"},
		{"cache_control", "Cache-Control"},
	}
	for _, h := range headers {
		header := h.header
		specs = append(specs, Spec{
			Name:     h.name,
			Category: CategoryTechnical,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Snapshot.Header(header))
			},
		})
	}

	headerFlags := []struct {
		name   string
		header string
	}{
		{"has_hsts", "Strict-Transport-Security"},
		{"has_xss_protection", "X-XSS-Protection"},
		{"has_content_type_options", "X-Content-Type-Options"},
		{"has_frame_options", "X-Frame-Options"},
		{"has_csp", "Content-Security-Policy"},
		{"etag", "ETag"},
		{"last_modified", "Last-Modified"},
		{"content_encoding_header", "Content-Encoding"},
	}
	for _, h := range headerFlags {
		header := h.header
		specs = append(specs, Spec{
			Name:     h.name,
			Category: CategoryTechnical,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Snapshot.Header(header) != "")
			},
		})
	}

	selectors := []struct {
		name     string
		selector string
	}{
		{"async_js", "script[src][async]"},
		{"defer_js", "script[src][defer]"},
		{"total_css_files", "link[rel='stylesheet']"},
		{"total_js_files", "script[src]"},
		{"inline_css_count", "style"},
		{"preload_hints", "link[rel='preload']"},
		{"preconnect_hints", "link[rel='preconnect']"},
		{"prefetch_hints", "link[rel='prefetch']"},
		{"dns_prefetch_hints", "link[rel='dns-prefetch']"},
	}
	for _, s := range selectors {
		selector := s.selector
		specs = append(specs, Spec{
			Name:     s.name,
			Category: CategoryTechnical,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				return info(in.Page.Find(selector).Length())
			},
		})
	}

	specs = append(specs,
		Spec{
			Name:     "inline_js_count",
			Category: CategoryTechnical,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				count := 0
				in.Page.Find("script").Each(func(_ int, s *goquery.Selection) {
					if s.AttrOr("src", "") == "" {
						count++
					}
				})
				return info(count)
			},
		},
		Spec{
			Name:     "inline_css_size",
			Category: CategoryTechnical,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				size := 0
				in.Page.Find("style").Each(func(_ int, s *goquery.Selection) {
					size += len(s.Text())
				})
				return info(size)
			},
		},
		Spec{
			Name:     "inline_js_size",
			Category: CategoryTechnical,
			Severity: SeverityOK,
			Eval: func(in *Input) Result {
				size := 0
				in.Page.Find("script").Each(func(_ int, s *goquery.Selection) {
					if s.AttrOr("src", "") == "" {
						size += len(s.Text())
					}
				})
				return info(size)
			},
		},
	)
	return specs
}

func findFavicon(in *Input) *goquery.Selection {
	var icon *goquery.Selection
	in.Page.Find("link[rel]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(s.AttrOr("rel", "")), "icon") {
			icon = s
			return false
		}
		return true
	})
	return icon
}

func urlPath(in *Input) string {
	u, err := url.Parse(in.Snapshot.FinalURL)
	if err != nil {
		return ""
	}
	return u.Path
}

func pathDepth(path string) int {
	depth := 0
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			depth++
		}
	}
	return depth
}
