package oxml

import (
	"encoding/xml"
)

const wbBaseDir = "xl"

const (
	typeDocUrl   = "relationships/officeDocument"
	typeSheetUrl = "relationships/worksheet"
)

type xmlWorkbook struct {
	XMLName xml.Name   `xml:"workbook"`
	Sheets  []xmlSheet `xml:"sheets>sheet"`
}

type xmlSheet struct {
	XMLName xml.Name `xml:"sheet"`
	Id      string   `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	Name    string   `xml:"name,attr"`
	Index   int      `xml:"sheetId,attr"`
	State   string   `xml:"state,attr"`
}

type xmlRelations struct {
	XMLName   xml.Name      `xml:"Relationships"`
	Relations []xmlRelation `xml:"Relationship"`
}

type xmlRelation struct {
	XMLName xml.Name `xml:"Relationship"`
	Target  string   `xml:",attr"`
	Id      string   `xml:",attr"`
	Type    string   `xml:",attr"`
}

type xmlSharedStrings struct {
	XMLName xml.Name          `xml:"sst"`
	Values  []xmlSharedString `xml:"si"`
}

// xmlSharedString is either a plain text or a list of rich text runs.
type xmlSharedString struct {
	Text string `xml:"t"`
	Runs []struct {
		Text string `xml:"t"`
	} `xml:"r"`
}

func (x xmlSharedString) String() string {
	if len(x.Runs) == 0 {
		return x.Text
	}
	var str string
	for _, r := range x.Runs {
		str += r.Text
	}
	return str
}
