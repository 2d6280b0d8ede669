package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const alertFixture = `
<html><body>
<table>
  <tr>
    <td>
      <a href="https://www.linkedin.com/comm/jobs/view/4012345678?trackingId=x&refId=y">
        <img src="https://media.example/logo.png" alt="Acme logo">
      </a>
    </td>
    <td>
      <a href="https://www.linkedin.com/comm/jobs/view/4012345678?trackingId=z">Senior Backend Engineer</a>
      <p>Acme Corp · New York, NY</p>
      <p>Actively recruiting</p>
    </td>
  </tr>
</table>
<table>
  <tr>
    <td>
      <a href="https://www.linkedin.com/comm/jobs/view/4099999999">Platform Engineer, Infrastructure</a>
      <p>Globex · Remote, US</p>
    </td>
  </tr>
</table>
<a href="https://www.linkedin.com/jobs/search/?keywords=engineer">See all jobs</a>
<a href="https://www.linkedin.com/psettings/unsubscribe">Unsubscribe</a>
</body></html>`

func TestParseLinkedInAlert(t *testing.T) {
	jobs, err := parseLinkedInAlert(alertFixture)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	// the logo anchor and the title anchor for 4012345678 merge into one job
	first := jobs[0]
	assert.Equal(t, "Senior Backend Engineer", first.Title)
	assert.Equal(t, "Acme Corp", first.Company)
	assert.Equal(t, "New York, NY", first.Location)
	assert.Equal(t, "email:linkedin:4012345678", first.SourceID)
	assert.NotContains(t, first.URL, "trackingId")

	second := jobs[1]
	assert.Equal(t, "Platform Engineer, Infrastructure", second.Title)
	assert.Equal(t, "Globex", second.Company)
	assert.Equal(t, "Remote, US", second.Location)
	assert.Equal(t, "email:linkedin:4099999999", second.SourceID)
}

func TestParseLinkedInAlertEmpty(t *testing.T) {
	jobs, err := parseLinkedInAlert("<html><body><p>Nothing to see</p></body></html>")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestPlausibleTitleFilters(t *testing.T) {
	assert.Equal(t, "Backend Engineer", plausibleTitle(" Backend Engineer  Easy Apply "))
	assert.Empty(t, plausibleTitle("3 applicants"))
	assert.Empty(t, plausibleTitle("See all jobs"))
	assert.Empty(t, plausibleTitle(""))
}

func TestUnwrapRedirect(t *testing.T) {
	assert.Equal(t, "https://www.linkedin.com/jobs/view/1",
		unwrapRedirect("https://www.linkedin.com/jobs/view/1"))
	assert.Equal(t, "https://www.linkedin.com/jobs/view/2",
		unwrapRedirect("https://tracking.example/click?url=https%3A%2F%2Fwww.linkedin.com%2Fjobs%2Fview%2F2"))
	assert.Empty(t, unwrapRedirect("/relative/path"))
}
