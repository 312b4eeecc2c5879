package rendering_test

import (
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/iknowcss/htmlshell/tests/testhelpers"
)

var _ = Describe("Document shell rendering", func() {
	Context("with an empty request", func() {
		It("renders a minimal shell with the environment bootstrap", func() {
			resp := testEnv.RequestRender(`{}`, nil)

			testhelpers.ExpectNoError(resp)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Headers.Get("Content-Type")).To(ContainSubstring("text/html"))

			testhelpers.ExpectHTMLContent(resp, "<html>", "<head>", "<body>")
			testhelpers.ExpectEnvScript(resp, "{}")
			testhelpers.ExpectNotHTMLContent(resp, "_vwo_code")
		})

		It("falls back to the configured default title", func() {
			resp := testEnv.RequestRender(`{}`, nil)

			testhelpers.ExpectNoError(resp)
			testhelpers.ExpectTitle(resp, "Fallback Title")
		})
	})

	Context("with full document options", func() {
		requestBody := `{
			"options": {
				"title": "Product Catalog",
				"description": "Browse our products",
				"canonical": "https://shop.example.com/catalog",
				"visual_website_optimizer": true,
				"env": {"API_URL": "https://api.example.com"}
			},
			"body": "<div id=\"root\"><h1>Catalog</h1></div>"
		}`

		It("renders all head tags and scripts", func() {
			resp := testEnv.RequestRender(requestBody, nil)

			testhelpers.ExpectNoError(resp)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			testhelpers.ExpectTitle(resp, "Product Catalog")
			testhelpers.ExpectMetaTag(resp, "description", "Browse our products")
			testhelpers.ExpectCanonical(resp, "https://shop.example.com/catalog")
			testhelpers.ExpectEnvScript(resp, `{"API_URL":"https://api.example.com"}`)
			testhelpers.ExpectOptimizerAccount(resp, 215379)
			testhelpers.ExpectHTMLContent(resp, `<div id="root"><h1>Catalog</h1></div>`)
		})

		It("places the bootstrap scripts before the page content", func() {
			resp := testEnv.RequestRender(requestBody, nil)

			testhelpers.ExpectNoError(resp)
			envIdx := strings.Index(resp.Body, "window.process=")
			contentIdx := strings.Index(resp.Body, `<div id="root">`)
			Expect(envIdx).To(BeNumerically(">", 0))
			Expect(contentIdx).To(BeNumerically(">", envIdx))
		})
	})

	Context("with a custom analytics account", func() {
		It("wires the custom account id into the snippet", func() {
			resp := testEnv.RequestRender(`{
				"options": {"visual_website_optimizer": {"account_id": 99001}}
			}`, nil)

			testhelpers.ExpectNoError(resp)
			testhelpers.ExpectOptimizerAccount(resp, 99001)
		})
	})

	Context("with head contributions", func() {
		It("lets page tags override the defaults", func() {
			resp := testEnv.RequestRender(`{
				"options": {"title": "Site", "description": "Site wide"},
				"head": [
					{"kind": "title", "text": "Article Title"},
					{"kind": "meta", "attrs": {"name": "description", "content": "Article summary"}},
					{"kind": "meta", "attrs": {"property": "og:title", "content": "Article Title"}}
				]
			}`, nil)

			testhelpers.ExpectNoError(resp)
			testhelpers.ExpectTitle(resp, "Article Title")
			testhelpers.ExpectNotHTMLContent(resp, "<title>Site</title>", "Site wide")
			testhelpers.ExpectMetaTag(resp, "description", "Article summary")
			testhelpers.ExpectOpenGraphTag(resp, "title", "Article Title")
		})
	})

	Context("with an invalid request", func() {
		It("rejects malformed JSON", func() {
			resp := testEnv.RequestRender(`{broken`, nil)

			testhelpers.ExpectNoError(resp)
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(resp.Body).To(ContainSubstring(`"success":false`))
			Expect(resp.Body).To(ContainSubstring("invalid_request"))
		})
	})

	Context("caching", func() {
		requestBody := `{"options": {"title": "Cache Me"}}`

		It("stores the rendered shell and serves repeats from cache", func() {
			first := testEnv.RequestRender(requestBody, nil)
			testhelpers.ExpectNoError(first)
			Expect(first.StatusCode).To(Equal(http.StatusOK))
			Expect(testEnv.CacheKeyCount()).To(Equal(1))

			second := testEnv.RequestRender(requestBody, nil)
			testhelpers.ExpectNoError(second)
			Expect(second.Body).To(Equal(first.Body))
			Expect(testEnv.CacheKeyCount()).To(Equal(1))
		})

		It("keeps distinct documents in distinct entries", func() {
			testhelpers.ExpectNoError(testEnv.RequestRender(`{"options": {"title": "A"}}`, nil))
			testhelpers.ExpectNoError(testEnv.RequestRender(`{"options": {"title": "B"}}`, nil))
			Expect(testEnv.CacheKeyCount()).To(Equal(2))
		})
	})

	Context("conditional requests", func() {
		It("returns 304 when the ETag matches", func() {
			first := testEnv.RequestRender(`{"options": {"title": "Stable"}}`, nil)
			testhelpers.ExpectNoError(first)
			etag := first.Headers.Get("ETag")
			Expect(etag).NotTo(BeEmpty())

			second := testEnv.RequestRender(`{"options": {"title": "Stable"}}`,
				map[string]string{"If-None-Match": etag})
			testhelpers.ExpectNoError(second)
			Expect(second.StatusCode).To(Equal(http.StatusNotModified))
			Expect(second.Body).To(BeEmpty())
		})
	})

	Context("health endpoint", func() {
		It("reports ok with process statistics", func() {
			resp := testEnv.RequestHealth()

			testhelpers.ExpectNoError(resp)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Body).To(ContainSubstring(`"status":"ok"`))
			Expect(resp.Body).To(ContainSubstring(`"goroutines"`))
		})
	})
})
