package trend

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDecode(t *testing.T) {

	doc := []byte(`{"trend": [
		{"date": "08/06/2019 09:37:45", "failed": 61, "passed": 497, "skipped": 0, "versions": [{"name": "onnx", "version": "1.5.0"}]},
		{"date": "08/08/2019 08:34:18", "failed": 51, "passed": 507, "skipped": 0, "package_versions": [{"name": "onnx", "version": 1.6}]}
	]}`)

	decoded, docErr := DecodeDocument(doc)

	Convey("Checking that a trend document is decoded", t, func() {
		Convey("using a document with string and number versions, under both version keys", func() {
			Convey("both runs are decoded with their versions", func() {
				So(docErr, ShouldBeNil)
				So(len(decoded.Trend), ShouldEqual, 2)
				So(decoded.Trend[0].Versions, ShouldResemble, []PackageVersion{{Name: "onnx", Version: "1.5.0"}})
				So(decoded.Trend[1].Versions, ShouldResemble, []PackageVersion{{Name: "onnx", Version: "1.6"}})
				So(decoded.Trend[1].Passed, ShouldEqual, 507)
			})
		})
	})

	bad := [][]byte{
		[]byte(`[{"passed": 1, "failed": 2}]`),
		[]byte(`[{"date": "08/06/2019 09:37:45", "passed": 1, "failed": 2}, {"date": "08/06/2019 09:37:45", "passed": "lots", "failed": 2}]`),
		[]byte(`[{"date": "08/06/2019 09:37:45", "passed": 1, "failed": -2}]`),
		[]byte(`{"results": []}`),
		[]byte(`not json`),
	}
	indexes := []int{0, 1, 0, -1, -1}
	fields := []string{"date", "passed", "failed", "trend", "(root)"}

	for i, b := range bad {
		var err error
		if i == 3 {
			_, err = DecodeDocument(b)
		} else {
			_, err = DecodeTrend(b)
		}

		Convey("Checking that malformed trends are rejected", t, func() {
			Convey(fmt.Sprintf("using %s", string(b)), func() {
				Convey(fmt.Sprintf("a MalformedSummaryError is returned for the %s field", fields[i]), func() {
					var malformed *MalformedSummaryError
					So(errors.As(err, &malformed), ShouldBeTrue)
					So(malformed.Index, ShouldEqual, indexes[i])
					So(malformed.Field, ShouldEqual, fields[i])
				})
			})
		})
	}
}

func TestStore(t *testing.T) {

	dir := t.TempDir()
	input := onnxTrend()
	saveErr := Save(dir, "", input)
	loaded, loadErr := Load(dir, "")
	saved, _ := os.ReadFile(filepath.Join(dir, FileName))

	Convey("Checking that a saved trend can be loaded", t, func() {
		Convey("saving then loading the onnx trend", func() {
			Convey("the loaded trend matches and the keys are alphabetical", func() {
				So(saveErr, ShouldBeNil)
				So(loadErr, ShouldBeNil)
				So(loaded, ShouldResemble, input)
				So(bytes.Index(saved, []byte(`"date"`)), ShouldBeLessThan, bytes.Index(saved, []byte(`"failed"`)))
				So(bytes.Index(saved, []byte(`"failed"`)), ShouldBeLessThan, bytes.Index(saved, []byte(`"passed"`)))
			})
		})
	})

	now := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	missing, missingErr := LoadOrDummy(filepath.Join(dir, "not", "here"), "", now)

	os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`[{"date": `), 0o644)
	broken, brokenErr := LoadOrDummy(dir, "broken.json", now)

	Convey("Checking that missing and broken trends are replaced", t, func() {
		Convey("loading a missing file and a broken file", func() {
			Convey("a dummy trend dated now is returned with the error", func() {
				So(missingErr, ShouldNotBeNil)
				So(missing, ShouldResemble, Trend{{Date: "01/02/2020 03:04:05"}})
				So(brokenErr, ShouldNotBeNil)
				So(broken, ShouldResemble, missing)
			})
		})
	})
}

func TestUpdate(t *testing.T) {

	base := onnxTrend()
	last := base[len(base)-1]

	same := last
	same.Date = "08/10/2019 10:00:00"
	replaced := Update(base, same)

	different := same
	different.Passed++
	appended := Update(base, different)

	short := Update(base[:1], RunSummary{Date: "09/01/2019 00:00:00", Passed: base[0].Passed, Failed: base[0].Failed, Versions: base[0].Versions})

	Convey("Checking that a new summary updates the trend", t, func() {
		Convey("adding a repeat of the latest result, a new result and a repeat to a single run trend", func() {
			Convey("the repeat replaces the latest run, the others are appended", func() {
				So(len(replaced), ShouldEqual, len(base))
				So(replaced[len(replaced)-1].Date, ShouldEqual, "08/10/2019 10:00:00")
				So(len(appended), ShouldEqual, len(base)+1)
				So(len(short), ShouldEqual, 2)
				// the input is never changed
				So(base, ShouldResemble, onnxTrend())
			})
		})
	})
}
