package nfe

import "encoding/xml"

// Minimal XML mapping of the NF-e v4 layout (namespace
// http://www.portalfiscal.inf.br/nfe). Values stay strings at this level;
// numeric interpretation belongs to the pipeline. A missing element simply
// leaves its field zero-valued, which downstream reads as absent.

type nfeProc struct {
	XMLName xml.Name `xml:"nfeProc"`
	NFe     nfeRoot  `xml:"NFe"`
}

type nfeRoot struct {
	XMLName xml.Name `xml:"NFe"`
	InfNFe  infNFe   `xml:"infNFe"`
}

type infNFe struct {
	ID string `xml:"Id,attr"`

	Ide     ide      `xml:"ide"`
	Emit    party    `xml:"emit"`
	Dest    party    `xml:"dest"`
	Det     []det    `xml:"det"`
	Total   total    `xml:"total"`
	Transp  transp   `xml:"transp"`
	Cobr    *cobr    `xml:"cobr"`
	InfAdic *infAdic `xml:"infAdic"`
}

type ide struct {
	NNF   string `xml:"nNF"`
	Serie string `xml:"serie"`
	NatOp string `xml:"natOp"`
	DhEmi string `xml:"dhEmi"`
}

type party struct {
	CNPJ     string  `xml:"CNPJ"`
	XNome    string  `xml:"xNome"`
	IE       string  `xml:"IE"`
	EnderEmi address `xml:"enderEmit"`
	EnderDes address `xml:"enderDest"`
}

type address struct {
	XLgr        string `xml:"xLgr"`
	Nro         string `xml:"nro"`
	Complemento string `xml:"complemento"`
	XBairro     string `xml:"xBairro"`
	XMun        string `xml:"xMun"`
	UF          string `xml:"UF"`
	CEP         string `xml:"CEP"`
	CPais       string `xml:"cPais"`
}

type det struct {
	Prod      prod   `xml:"prod"`
	InfAdProd string `xml:"infAdProd"`
}

type prod struct {
	CProd    string `xml:"cProd"`
	QCom     string `xml:"qCom"`
	XProd    string `xml:"xProd"`
	UCom     string `xml:"uCom"`
	VUnCom   string `xml:"vUnCom"`
	VProd    string `xml:"vProd"`
	NCM      string `xml:"NCM"`
	CFOP     string `xml:"CFOP"`
	XPed     string `xml:"xPed"`
	NItemPed string `xml:"nItemPed"`
}

type total struct {
	ICMSTot icmsTot `xml:"ICMSTot"`
}

type icmsTot struct {
	VNF    string `xml:"vNF"`
	VFrete string `xml:"vFrete"`
}

type transp struct {
	Vol vol `xml:"vol"`
}

type vol struct {
	VeicID string `xml:"veicId"`
	Placa  string `xml:"placa"`
	UF     string `xml:"uf"`
}

type cobr struct {
	Fat fat   `xml:"fat"`
	Dup []dup `xml:"dup"`
}

type fat struct {
	NFat  string `xml:"nFat"`
	VOrig string `xml:"vOrig"`
	VLiq  string `xml:"vLiq"`
}

type dup struct {
	NDup  string `xml:"nDup"`
	DVenc string `xml:"dVenc"`
}

type infAdic struct {
	InfCpl string `xml:"infCpl"`
}
