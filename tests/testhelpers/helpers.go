package testhelpers

import (
	"net/http"
	"time"

	. "github.com/onsi/gomega"
)

// TestResponse represents the response from a render request
type TestResponse struct {
	StatusCode int
	Headers    http.Header
	Body       string
	Duration   time.Duration
	Error      error
}

// ExpectNoError checks that the response has no network errors
func ExpectNoError(response *TestResponse) {
	Expect(response).NotTo(BeNil(), "Response should not be nil")
	Expect(response.Error).To(BeNil(), "Request should not have network errors")
}

// ExpectHTMLContent verifies that response contains expected HTML content
func ExpectHTMLContent(response *TestResponse, expectedContent ...string) {
	Expect(response.Body).NotTo(BeEmpty(), "Response body should not be empty")
	for _, content := range expectedContent {
		Expect(response.Body).To(ContainSubstring(content),
			"Response should contain: %s", content)
	}
}

// ExpectNotHTMLContent verifies that response does not contain specific content
func ExpectNotHTMLContent(response *TestResponse, unexpectedContent ...string) {
	for _, content := range unexpectedContent {
		Expect(response.Body).NotTo(ContainSubstring(content),
			"Response should not contain: %s", content)
	}
}

// ExpectTitle verifies the <title> text
func ExpectTitle(response *TestResponse, title string) {
	ExpectHTMLContent(response, "<title>"+title+"</title>")
}

// ExpectMetaTag verifies that a meta tag with specific name and content exists
func ExpectMetaTag(response *TestResponse, name, content string) {
	Expect(response.Body).To(ContainSubstring(`<meta name="`+name+`"`),
		"Should have meta tag: %s", name)
	if content != "" {
		Expect(response.Body).To(ContainSubstring(`content="`+content),
			"Meta tag %s should have content: %s", name, content)
	}
}

// ExpectOpenGraphTag verifies that an Open Graph meta tag exists
func ExpectOpenGraphTag(response *TestResponse, property, content string) {
	Expect(response.Body).To(ContainSubstring(`<meta property="og:`+property+`"`),
		"Should have OG property: %s", property)
	if content != "" {
		Expect(response.Body).To(ContainSubstring(`content="`+content),
			"OG property %s should have content: %s", property, content)
	}
}

// ExpectCanonical verifies the canonical link target
func ExpectCanonical(response *TestResponse, href string) {
	ExpectHTMLContent(response, `rel="canonical"`, `href="`+href+`"`)
}

// ExpectEnvScript verifies the environment bootstrap script body
func ExpectEnvScript(response *TestResponse, envJSON string) {
	ExpectHTMLContent(response, "window.process={env:"+envJSON+"};")
}

// ExpectOptimizerAccount verifies the analytics snippet account wiring
func ExpectOptimizerAccount(response *TestResponse, accountID int) {
	ExpectHTMLContent(response,
		"window._vwo_code",
		"dev.visualwebsiteoptimizer.com/lib/")
	Expect(response.Body).To(ContainSubstring("account_id=%d", accountID))
}
