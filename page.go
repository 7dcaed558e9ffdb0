package formwalker

// DefaultStartURL is the index of the Selenium demo pages.
const DefaultStartURL = "https://www.selenium.dev/selenium/web/index.html"

// Page describes where the controls of the demo web form live.
type Page struct {
	StartURL string `yaml:"startURL"`

	WebFormLink Locator `yaml:"webFormLink"`
	TextInput   Locator `yaml:"textInput"`
	Dropdown    Locator `yaml:"dropdown"`
	Datalist    Locator `yaml:"datalist"`
	Upload      Locator `yaml:"upload"`
	Checkbox    Locator `yaml:"checkbox"`
	Radio       Locator `yaml:"radio"`
	Color       Locator `yaml:"color"`
	Date        Locator `yaml:"date"`
	Slider      Locator `yaml:"slider"`
	Submit      Locator `yaml:"submit"`
	ReturnLink  Locator `yaml:"returnLink"`

	// SliderDrag is the pointer offset, in pixels, of the slider drag.
	SliderDrag Offset `yaml:"sliderDrag"`
}

// Offset is a pointer displacement in CSS pixels.
type Offset struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// DefaultPage returns the locators of https://www.selenium.dev/selenium/web/web-form.html.
func DefaultPage() Page {
	return Page{
		StartURL:    DefaultStartURL,
		WebFormLink: Locator{ByLinkText, "web-form.html"},
		TextInput:   Locator{ByID, "my-text-id"},
		Dropdown:    Locator{ByName, "my-select"},
		Datalist:    Locator{ByName, "my-datalist"},
		Upload:      Locator{ByName, "my-file"},
		Checkbox:    Locator{ByID, "my-check-1"},
		Radio:       Locator{ByID, "my-radio-2"},
		Color:       Locator{ByName, "my-colors"},
		Date:        Locator{ByName, "my-date"},
		Slider:      Locator{ByName, "my-range"},
		Submit:      Locator{ByCSSSelector, "[type=submit]"},
		ReturnLink:  Locator{ByLinkText, "Return to index"},
		SliderDrag:  Offset{X: 80, Y: 0},
	}
}

// Values are the literals typed into the form during a walk.
type Values struct {
	Text string `yaml:"text"`
	// NumberInt is selected in the dropdown by option value, then NumberStr is
	// typed into the same control.
	NumberInt int    `yaml:"numberInt"`
	NumberStr string `yaml:"numberStr"`
	City      string `yaml:"city"`
	// UploadFile is resolved against the working directory before upload.
	UploadFile string `yaml:"uploadFile"`
	Color      string `yaml:"color"`
	// Date is typed as month/day/year.
	Date            string `yaml:"date"`
	SliderDirection string `yaml:"sliderDirection"`
	SliderSteps     int    `yaml:"sliderSteps"`
}

// DefaultValues returns the values of the stock demo walk.
func DefaultValues() Values {
	return Values{
		Text:            "Some text goes here and there!",
		NumberInt:       2,
		NumberStr:       "one",
		City:            "Seattle",
		UploadFile:      "File_to_upload.txt",
		Color:           "#FFFF00",
		Date:            "01/25/1999",
		SliderDirection: "L",
		SliderSteps:     5,
	}
}
