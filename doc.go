/*
Package formwalker drives a browser through the Selenium demo web form.

A Walker opens a WebDriver session, navigates from the demo index to the web
form, fills every control in a fixed order, submits the form, goes back,
follows the link back to the index and closes the browser. Each interaction
is followed by a settle pause so the page can react.

Sessions come from an Opener. Remote returns one backed by a Selenium server
or a browser driver:

	caps, err := formwalker.NewCapabilities(formwalker.BrowserOptions{Browser: formwalker.Edge})
	if err != nil {
		panic(err)
	}
	w, err := formwalker.New(formwalker.Remote(caps, "http://localhost:9515"))
	if err != nil {
		panic(err)
	}
	if err := w.Run(context.Background()); err != nil {
		// No browser session could be started.
		panic(err)
	}

A failing interaction ends the walk early. It is reported on the walker's
output as "An error has occurred: ..." and the session is still closed; Run
only returns an error when the session itself could not be set up.

DriverService starts msedgedriver, chromedriver or geckodriver locally,
optionally inside an Xvfb frame buffer.
*/
package formwalker
