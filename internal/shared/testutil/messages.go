package testutil

// Message detail bodies as served by /backend/sfactmessages/{guid}.

// CompanyLesseeMessage is a complete notice with a legal-entity lessee
const CompanyLesseeMessage = `{
  "guid": "m-company",
  "number": "12345678",
  "datePublish": "2022-01-10T12:30:00",
  "publisher": {"inn": "7700000001", "ogrn": "1027700000001"},
  "content": {
    "contractNumber": "Л-42",
    "contractDate": "2022-01-05T00:00:00",
    "startDate": "2022-01-06T00:00:00",
    "endDate": "2025-01-06T00:00:00",
    "lessorsCompanies": [
      {"fullName": "ООО \"Лизинг Плюс\"", "inn": "7700000001", "ogrn": "1027700000001"}
    ],
    "lesseesIndividualEntrepreneurs": [],
    "lesseesCompanies": [
      {"fullName": "АО \"Перевозчик\"", "inn": "1234567890", "ogrn": "1021234567890"}
    ],
    "subjects": [
      {"subjectId": "VIN X1234567890", "classifierCode": "01.01", "classifierName": "Транспортные средства", "description": "Грузовой автомобиль"}
    ]
  }
}`

// CompanyLesseeNoClassifierMessage lacks the subject classifier fields
const CompanyLesseeNoClassifierMessage = `{
  "number": "12345679",
  "datePublish": "2022-01-11T08:00:00",
  "content": {
    "contractNumber": "Л-43",
    "contractDate": "2022-01-05T00:00:00",
    "startDate": "2022-01-06T00:00:00",
    "endDate": "2023-01-06T00:00:00",
    "lessorsCompanies": [{"fullName": "ООО Лизинг", "inn": "7700000001", "ogrn": "1027700000001"}],
    "lesseesCompanies": [{"fullName": "ООО Склад", "inn": "1234567890", "ogrn": "1021234567890"}],
    "subjects": [{"subjectId": "INV-7", "description": "Стеллажи"}]
  }
}`

// IndividualLesseeMessage has an individual lessee without ogrnip
const IndividualLesseeMessage = `{
  "number": 22334455,
  "datePublish": "2022-02-01T09:15:00",
  "content": {
    "contractNumber": "ФЛ-1",
    "contractDate": "2022-01-28T00:00:00",
    "startDate": "2022-02-01T00:00:00",
    "endDate": "2024-02-01T00:00:00",
    "lessorsCompanies": [{"fullName": "ООО Лизинг", "inn": "7700000001", "ogrn": "1027700000001"}],
    "lesseesCompanies": [],
    "lesseesIndividualPersons": [{"fio": "Иванов Иван Иванович", "inn": "500100732259"}],
    "subjects": [{"subjectId": "VIN Y1", "classifierCode": "01.02", "classifierName": "Легковые автомобили", "description": "Седан"}]
  }
}`

// LockedMessage is a notice blocked by a later annulment
const LockedMessage = `{
  "number": "99999999",
  "lockReason": "Аннулировано",
  "annulmentMessageInfo": {"guid": "a-1", "datePublish": "2022-03-01T10:00:00"},
  "publisher": {"inn": "7700000002", "ogrn": "1027700000002"}
}`

// NoLesseeMessage has content without any lessee group
const NoLesseeMessage = `{
  "number": "55555555",
  "datePublish": "2022-04-01T10:00:00",
  "content": {
    "contractNumber": "X-1",
    "lessorsCompanies": [{"fullName": "ООО Лизинг", "inn": "7700000001", "ogrn": "1027700000001"}],
    "lesseesCompanies": []
  }
}`

// BrokenContractMessage loses the contract number halfway through extraction
const BrokenContractMessage = `{
  "number": "66666666",
  "datePublish": "2022-05-01T10:00:00",
  "content": {
    "contractDate": "2022-04-30T00:00:00",
    "lessorsCompanies": [{"fullName": "ООО Лизинг", "inn": "7700000001", "ogrn": "1027700000001"}],
    "lesseesCompanies": [{"fullName": "ООО Склад", "inn": "1234567890", "ogrn": "1021234567890"}]
  }
}`
