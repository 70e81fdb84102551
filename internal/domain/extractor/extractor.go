// Package extractor projects the mountain report markup into a WeatherRecord.
package extractor

import (
	"errors"
	"fmt"
	"snowbird/internal/domain/entity"
	"snowbird/internal/domain/model"
	"snowbird/pkg/dom"
	"time"
)

// Markup regions of the mountain report page.
const (
	SelectorSnowfall          = "div.total-inches"
	SelectorCondition         = "div.condition-value"
	SelectorCurrentConditions = "div.current-conditions"
	SelectorTimestamp         = "div.timestamp"
	SelectorIcon              = "img.retina.condition-icon"
	SelectorSlideshow         = "div.slideshow-content"
	SelectorSlideshowPhoto    = "div.slideshow-photo"
	SelectorCamInfo           = "div.cam-info"
	SelectorCamHeading        = "h3"
	SelectorCamImage          = "img.retina"
)

// Extract builds a record from doc. The record is never nil: regions that
// cannot be found leave their keys absent and are reported in the returned
// error, which joins one ErrParse or ErrResourceIncomplete per problem.
func Extract(doc dom.Node, parsedAt time.Time) (*entity.WeatherRecord, error) {
	builder := entity.NewWeatherRecordBuilder(parsedAt)
	if doc == nil {
		return builder.Build(), fmt.Errorf("%w: empty document", model.ErrParse)
	}

	var errs []error

	// snowfall first, conditions second: a condition wins on a shared parent id
	errs = append(errs, extractByParentID(doc, SelectorSnowfall, builder)...)
	errs = append(errs, extractByParentID(doc, SelectorCondition, builder)...)

	if timestamp, err := extractTimestamp(doc); err != nil {
		errs = append(errs, err)
	} else {
		builder.Set(entity.KeyTimestamp, timestamp)
	}

	if icon, err := extractIcon(doc); err != nil {
		errs = append(errs, err)
	} else {
		builder.Set(entity.KeyIconURL, icon)
	}

	cams, camErrs := extractCams(doc)
	errs = append(errs, camErrs...)
	if cams != nil {
		builder.SetCams(cams)
	}

	return builder.Build(), errors.Join(errs...)
}

// extractByParentID maps the first text of each selected element to the id
// of its parent element.
func extractByParentID(doc dom.Node, selector string, builder *entity.WeatherRecordBuilder) []error {
	var errs []error
	for i, node := range doc.FindAll(selector) {
		parent, ok := node.Parent()
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s #%d has no parent", model.ErrParse, selector, i))
			continue
		}
		id, ok := parent.Attr("id")
		if !ok || id == "" {
			errs = append(errs, fmt.Errorf("%w: parent of %s #%d has no id", model.ErrParse, selector, i))
			continue
		}
		value, ok := node.FirstText()
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s %q has no value", model.ErrParse, selector, id))
			continue
		}
		builder.Set(id, value)
	}
	return errs
}

func extractTimestamp(doc dom.Node) (string, error) {
	conditions, ok := doc.Find(SelectorCurrentConditions)
	if !ok {
		return "", fmt.Errorf("%w: %s not found", model.ErrParse, SelectorCurrentConditions)
	}
	stamp, ok := conditions.Find(SelectorTimestamp)
	if !ok {
		return "", fmt.Errorf("%w: %s not found", model.ErrParse, SelectorTimestamp)
	}
	text, ok := stamp.FirstText()
	if !ok {
		return "", fmt.Errorf("%w: %s is empty", model.ErrParse, SelectorTimestamp)
	}
	return text, nil
}

func extractIcon(doc dom.Node) (string, error) {
	icon, ok := doc.Find(SelectorIcon)
	if !ok {
		return "", fmt.Errorf("%w: %s not found", model.ErrParse, SelectorIcon)
	}
	src, ok := icon.Attr("src")
	if !ok || src == "" {
		return "", fmt.Errorf("%w: %s has no src", model.ErrParse, SelectorIcon)
	}
	return src, nil
}

// extractCams returns nil when the slideshow container is missing and an empty
// non-nil slice when it holds no usable photos.
func extractCams(doc dom.Node) ([]entity.CamEntry, []error) {
	slideshow, ok := doc.Find(SelectorSlideshow)
	if !ok {
		return nil, []error{fmt.Errorf("%w: %s not found", model.ErrParse, SelectorSlideshow)}
	}

	cams := make([]entity.CamEntry, 0)
	var errs []error
	for i, photo := range slideshow.FindAll(SelectorSlideshowPhoto) {
		name, nameOK := camName(photo)
		url, urlOK := camURL(photo)

		switch {
		case !nameOK && !urlOK:
			errs = append(errs, fmt.Errorf("%w: camera #%d has no name and no image", model.ErrResourceIncomplete, i))
		case !nameOK:
			errs = append(errs, fmt.Errorf("%w: camera #%d (%s) has no name", model.ErrResourceIncomplete, i, url))
		case !urlOK:
			errs = append(errs, fmt.Errorf("%w: camera %q has no image", model.ErrResourceIncomplete, name))
		default:
			cams = append(cams, entity.CamEntry{Name: name, URL: url})
		}
	}
	return cams, errs
}

func camName(photo dom.Node) (string, bool) {
	info, ok := photo.Find(SelectorCamInfo)
	if !ok {
		return "", false
	}
	heading, ok := info.Find(SelectorCamHeading)
	if !ok {
		return "", false
	}
	return heading.FirstText()
}

func camURL(photo dom.Node) (string, bool) {
	image, ok := photo.Find(SelectorCamImage)
	if !ok {
		return "", false
	}
	src, ok := image.Attr("src")
	if !ok || src == "" {
		return "", false
	}
	return src, true
}
