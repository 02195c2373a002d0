package swagger

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"

	apicontract "github.com/tuanvumaihuynh/product-service/api-contract"
)

const (
	// docsURL is the URL path where the Swagger UI will be served
	docsURL = "/docs"

	// specYAMLURL serves the embedded document as written
	specYAMLURL = "/docs/openapi.yml"

	// specJSONURL serves the parsed document as JSON
	specJSONURL = "/docs/openapi.json"
)

// Register serves the Swagger UI and the OpenAPI document on r.
func Register(r chi.Router, doc *openapi3.T) error {
	specJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal openapi document: %w", err)
	}

	r.Get(docsURL, write("text/html; charset=utf-8", []byte(getTemplate(specYAMLURL, doc.Info.Title))))
	r.Get(specYAMLURL, write("application/yaml", apicontract.GetSpecBytes()))
	r.Get(specJSONURL, write("application/json", specJSON))

	return nil
}

func write(contentType string, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		w.Write(body)
	}
}

// getTemplate returns the HTML page loading Swagger UI for specPath.
func getTemplate(specPath, title string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>%s</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.29.3/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.29.3/swagger-ui-bundle.js" crossorigin></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: '%s',
      dom_id: '#swagger-ui',
      deepLinking: true,
      persistAuthorization: true,
    });
  };
</script>
</body>
</html>
`, title, specPath)
}
